package main

import (
	"github.com/spf13/cobra"

	"alunosync/internal/config"
	"alunosync/internal/session"
)

// sessionCmd groups the stored-session maintenance commands.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the stored portal session",
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a stored credential and session cookie exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		store := session.NewStore(cfg.AuthFile)
		cred, err := store.Load()
		if err != nil {
			return err
		}
		switch {
		case cred == nil:
			cmd.Printf("no stored credential (%s)\n", store.Path())
		case cred.AuthCookie == nil:
			cmd.Printf("credential for %s stored, no session cookie (next run will log in)\n", cred.Login)
		default:
			cmd.Printf("credential for %s stored with session cookie %q\n", cred.Login, cred.AuthCookie.Name)
		}
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored credential file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		store := session.NewStore(cfg.AuthFile)
		if err := store.Clear(); err != nil {
			return err
		}
		cmd.Printf("cleared %s\n", store.Path())
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionStatusCmd, sessionClearCmd)
}
