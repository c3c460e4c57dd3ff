// Command alunosync reconciles a CSV batch of student records against the
// school management portal's UI: it locates each student, fills in missing
// CPF/INEP/NIS codes and saves the result, reusing the previous session
// cookie when it is still alive.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "alunosync",
	Short: "Batch student-record reconciliation for the school management portal",
	Long: `alunosync reads a CSV of student records (NomeDoAluno, CPF, INEP, NIS)
and drives the management portal's UI to locate each student, fill in the
missing identification codes and save the record.

Authentication reuses the session cookie stored from the previous run when
it is still alive; otherwise a full login is performed and the fresh cookie
is stored for next time.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file")
	rootCmd.AddCommand(runCmd, sessionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
