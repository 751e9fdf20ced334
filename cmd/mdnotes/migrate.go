package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer st.Close()
		return printVersion(cmd)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		st, err := openStore(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.MigrateDown(cmd.Context(), migrateSteps); err != nil {
			return err
		}
		slog.Info("migrated down", "steps", migrateSteps)
		return printVersion(cmd)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE:  func(cmd *cobra.Command, args []string) error { return printVersion(cmd) },
}

func printVersion(cmd *cobra.Command) error {
	st, err := openStore(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer st.Close()
	version, dirty, ok, err := st.SchemaVersion(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintf(out, "%s: no migrations applied\n", st.Dialect())
		return nil
	}
	fmt.Fprintf(out, "%s: version %d", st.Dialect(), version)
	if dirty {
		fmt.Fprint(out, " (dirty)")
	}
	fmt.Fprintln(out)
	return nil
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
