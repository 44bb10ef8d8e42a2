package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/dexreader/dexreader/internal/config"
)

// MihonImportCommand migrates a Mihon/Tachiyomi backup into the library.
type MihonImportCommand struct {
	FilePath     string
	DatabasePath string
}

func NewMihonImportCommand() *MihonImportCommand {
	return &MihonImportCommand{}
}

func (cmd *MihonImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("mihon-import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the .tachibk or .proto.gz backup file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s mihon-import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Migrate a Mihon or Tachiyomi backup into the library. Only entries from\n")
		fmt.Fprintf(os.Stderr, "the supported catalogue are considered; manga already in the library are\n")
		fmt.Fprintf(os.Stderr, "skipped, never overwritten.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s mihon-import -file backup.tachibk\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *MihonImportCommand) Run() error {
	if _, err := os.Stat(cmd.FilePath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", cmd.FilePath)
	}

	svcs, err := openServices(cmd.DatabasePath, "cli")
	if err != nil {
		return err
	}
	defer svcs.close()

	result, err := svcs.foreign.Import(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("mihon import failed: %w", err)
	}

	printImportResult(result)
	return nil
}
