package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dexreader/dexreader/internal/backup"
	"github.com/dexreader/dexreader/internal/config"
)

// ExportCommand writes the library to a native backup file.
type ExportCommand struct {
	OutputPath     string
	DatabasePath   string
	NoCollections  bool
	NoProgress     bool
	NoReaderConfig bool
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.OutputPath, "out", "", "Output file path (default: timestamped file in the current directory)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database")
	fs.BoolVar(&cmd.NoCollections, "no-collections", false, "Exclude collections from the backup")
	fs.BoolVar(&cmd.NoProgress, "no-progress", false, "Exclude reading progress from the backup")
	fs.BoolVar(&cmd.NoReaderConfig, "no-reader-settings", false, "Exclude per-manga reader settings from the backup")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Write the library to a backup file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -out ~/backups/library%s -no-reader-settings\n", os.Args[0], backup.FileExtension)
	}

	return fs.Parse(args)
}

func (cmd *ExportCommand) Run() error {
	if cmd.OutputPath == "" {
		name := "library-" + time.Now().UTC().Format("20060102-150405") + backup.FileExtension
		cmd.OutputPath = filepath.Join(".", name)
	}

	svcs, err := openServices(cmd.DatabasePath, "cli")
	if err != nil {
		return err
	}
	defer svcs.close()

	opts := backup.ExportOptions{
		IncludeCollections:    !cmd.NoCollections,
		IncludeProgress:       !cmd.NoProgress,
		IncludeReaderSettings: !cmd.NoReaderConfig,
	}

	result, err := svcs.native.Export(cmd.OutputPath, opts)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	printExportResult(result)
	return nil
}
