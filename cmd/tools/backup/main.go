// Command backup exports and imports the stored collections without running
// the server.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storyhub/internal/backup"
	"storyhub/internal/config"
	"storyhub/internal/state"
	"storyhub/internal/storage"
	"storyhub/pkg/database"
)

var (
	dbPath    string
	keyPrefix string
	outPath   string
	assumeYes bool
	verbose   bool
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the storyhub data bundle",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every collection to a JSON bundle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := outPath
		if out == "" {
			out = backup.Filename(time.Now())
		}
		if out == "-" {
			return runExport(cmd.OutOrStdout())
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := runExport(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored collections with those in a bundle",
	Long: `Replace the stored collections with those in a bundle.

Collections missing from the file are left as they are. The file is validated
before anything is written, and --yes is required to go ahead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := runImport(data, assumeYes); err != nil {
			if errors.Is(err, state.ErrNotConfirmed) {
				return fmt.Errorf("%w: pass --yes to overwrite the current data", err)
			}
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "imported %s\n", args[0])
		return nil
	},
}

func init() {
	defaults, err := config.Load()
	if err != nil {
		defaults = &config.Config{DBPath: "./data/storyhub.db", KeyPrefix: "storyhub_"}
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaults.DBPath, "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&keyPrefix, "prefix", defaults.KeyPrefix, "storage key prefix")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, - for stdout (default storyhub-backup-<ms>.json)")
	importCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "confirm overwriting the current data")

	rootCmd.AddCommand(exportCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore() (*state.Store, func(), error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	persist := storage.New(db, keyPrefix, logger, storage.NotifierFunc(func(level, msg string) {
		logger.Warn(msg, zap.String("level", level))
	}))
	return state.Open(persist, database.DefaultStories(), logger), func() { db.Close() }, nil
}

func runExport(w io.Writer) error {
	store, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	var data []byte
	store.View(func(st *state.State) { data, err = backup.Export(st) })
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func runImport(data []byte, confirmed bool) error {
	store, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	return store.Replace("backup.imported", func(cur *state.State) (*state.State, error) {
		return backup.Import(cur, data, confirmed)
	})
}
