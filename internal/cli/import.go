package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/dexreader/dexreader/internal/config"
)

// ImportCommand restores a native backup file into the library.
type ImportCommand struct {
	FilePath     string
	DatabasePath string
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the backup file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Restore a backup file into the library. Existing entries are updated\n")
		fmt.Fprintf(os.Stderr, "in place; nothing is deleted.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportCommand) Run() error {
	if _, err := os.Stat(cmd.FilePath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", cmd.FilePath)
	}

	svcs, err := openServices(cmd.DatabasePath, "cli")
	if err != nil {
		return err
	}
	defer svcs.close()

	result, err := svcs.native.Import(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	printImportResult(result)
	return nil
}
