package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amonks/sidequest/internal/ui"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, import and restore state",
}

// backup export
var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full state as a JSON document",
	Args:  cobra.NoArgs,
	RunE:  runBackupExport,
}

var backupExportOutput string

// backup import
var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the full state with an exported document ('-' for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupImport,
}

// backup list
var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List automatic daily backups",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

var backupListJSON bool

// backup restore
var backupRestoreCmd = &cobra.Command{
	Use:   "restore <date>",
	Short: "Replace the full state with the backup taken on a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd, backupListCmd, backupRestoreCmd)

	backupExportCmd.Flags().StringVarP(&backupExportOutput, "output", "o", "", "Write to a file instead of stdout")
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output as JSON")
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	blob, err := eng.ExportBackup()
	if err != nil {
		return err
	}
	if backupExportOutput == "" {
		_, err := os.Stdout.Write(blob)
		return err
	}
	if err := os.WriteFile(backupExportOutput, blob, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Exported state to %s\n", backupExportOutput)
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	var (
		blob []byte
		err  error
	)
	if args[0] == "-" {
		blob, err = io.ReadAll(cmd.InOrStdin())
	} else {
		blob, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	if err := eng.ImportBackup(blob); err != nil {
		return err
	}
	fmt.Println("Imported state")
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	backups, err := eng.ListBackups()
	if err != nil {
		return err
	}
	if backupListJSON {
		return printJSONList(backups)
	}
	if len(backups) == 0 {
		fmt.Println("No backups yet.")
		return nil
	}
	builder := ui.NewTableBuilder([]string{"DATE", "SIZE", "PATH"}, len(backups))
	for _, b := range backups {
		builder.AddRow([]string{b.Date, fmt.Sprintf("%d", b.Size), b.Path})
	}
	fmt.Print(builder.String())
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	if err := eng.RestoreBackup(args[0]); err != nil {
		return err
	}
	fmt.Printf("Restored backup %s\n", args[0])
	return nil
}
