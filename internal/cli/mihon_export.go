package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dexreader/dexreader/internal/backup/mihon"
	"github.com/dexreader/dexreader/internal/config"
)

// MihonExportCommand writes the library as a Mihon/Tachiyomi backup file.
type MihonExportCommand struct {
	OutputPath   string
	DatabasePath string
}

func NewMihonExportCommand() *MihonExportCommand {
	return &MihonExportCommand{}
}

func (cmd *MihonExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("mihon-export", flag.ExitOnError)

	fs.StringVar(&cmd.OutputPath, "out", "", "Output file path (default: timestamped .tachibk in the current directory)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s mihon-export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Write the library as a backup a Mihon or Tachiyomi client can restore.\n")
		fmt.Fprintf(os.Stderr, "Collections become categories; chapter metadata is only included where\n")
		fmt.Fprintf(os.Stderr, "reading progress exists.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *MihonExportCommand) Run() error {
	if cmd.OutputPath == "" {
		name := "library-" + time.Now().UTC().Format("20060102-150405") + mihon.FileExtension
		cmd.OutputPath = filepath.Join(".", name)
	}

	svcs, err := openServices(cmd.DatabasePath, "cli")
	if err != nil {
		return err
	}
	defer svcs.close()

	result, err := svcs.foreign.Export(cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("mihon export failed: %w", err)
	}

	printExportResult(result)
	return nil
}
