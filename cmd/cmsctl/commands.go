package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current content as a backup file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			a.store.Load(ctx)
			out, err := a.backup.Export(ctx)
			if err != nil {
				return err
			}
			if exportOut == "" {
				_, err = cmd.OutOrStdout().Write(append(out.Data, '\n'))
				return err
			}
			if err := os.WriteFile(exportOut, out.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write backup file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Backup written to %s\n", exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the content with a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if args[0] == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read backup file: %w", err)
		}

		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			a.store.Load(ctx)
			if err := a.backup.Import(ctx, raw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Data imported successfully!")
			return nil
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace local changes with the last remote backup",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			a.store.Load(ctx)
			restored, err := a.store.RestoreFromBackup(ctx)
			if err != nil {
				return err
			}
			if !restored {
				return fmt.Errorf("no server backup available")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Original data restored from server backup.")
			return nil
		})
	},
}

var discardYes bool

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Delete local changes and the server backup",
	Long:  "Deletes both persisted copies. This cannot be undone and requires --yes.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !discardYes {
			return fmt.Errorf("discarding local changes is irreversible, pass --yes to confirm")
		}
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			if err := a.store.DiscardLocalChanges(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Local changes discarded.")
			return nil
		})
	},
}

type slotStatus struct {
	Present bool      `json:"present"`
	SavedAt time.Time `json:"saved_at,omitempty"`
}

type statusReport struct {
	HasLocalChanges bool       `json:"has_local_changes"`
	Primary         slotStatus `json:"primary"`
	Backup          slotStatus `json:"backup"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which persisted copies exist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			var report statusReport
			if snap, ok := a.reconciler.LoadPrimary(ctx); ok {
				report.HasLocalChanges = true
				report.Primary = slotStatus{Present: true, SavedAt: snap.Time().UTC()}
			}
			if snap, ok := a.reconciler.LoadBackup(ctx); ok {
				report.Backup = slotStatus{Present: true, SavedAt: snap.Time().UTC()}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Path to write the backup file (default stdout)")
	discardCmd.Flags().BoolVar(&discardYes, "yes", false, "Confirm the irreversible discard")

	rootCmd.AddCommand(exportCmd, importCmd, restoreCmd, discardCmd, statusCmd)
}
