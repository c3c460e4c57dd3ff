package main

import (
	"context"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alunosync/internal/batch"
	"alunosync/internal/browser"
	"alunosync/internal/config"
	"alunosync/internal/records"
	"alunosync/internal/session"
)

var (
	csvPath  string
	headless bool
)

// runCmd processes the whole CSV batch against the portal.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the CSV batch against the portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		figure.NewFigure("alunosync", "cybermedium", true).Print()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if csvPath != "" {
			cfg.CSVPath = csvPath
		}
		if cmd.Flags().Changed("headless") {
			cfg.Browser.Headless = headless
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// An unreadable source is fatal before anything is processed.
		students, err := records.Load(cfg.CSVPath)
		if err != nil {
			return err
		}
		logger.Info("record source loaded",
			zap.String("path", cfg.CSVPath),
			zap.Int("students", len(students)))

		drv, err := browser.NewRod(context.Background(), browser.Options{
			Headless:       cfg.Browser.Headless,
			ViewportWidth:  cfg.Browser.ViewportWidth,
			ViewportHeight: cfg.Browser.ViewportHeight,
			NavTimeout:     cfg.Browser.NavTimeout(),
			ActionTimeout:  cfg.Browser.ActionTimeout(),
			TypeDelay:      cfg.Browser.TypeDelay(),
		}, logger.Named("browser"))
		if err != nil {
			return err
		}
		defer func() {
			if err := drv.Close(); err != nil {
				logger.Warn("browser shutdown", zap.Error(err))
			}
		}()

		store := session.NewStore(cfg.AuthFile)
		mgr := session.NewManager(drv, store, cfg.BaseURL, cfg.Email, cfg.Senha, logger.Named("session"))
		if err := mgr.Ensure(); err != nil {
			return err
		}

		proc := batch.NewProcessor(drv, cfg.BaseURL, logger.Named("processor"))
		rep := batch.NewRunner(proc, cfg.RecordSettle(), logger.Named("batch")).Run(students)

		rep.Write(cfg.ReportDir, logger)
		rep.LogSummary(logger)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&csvPath, "csv", "", "path to the student CSV (default from config)")
	runCmd.Flags().BoolVar(&headless, "headless", false, "run the browser headless")
}
