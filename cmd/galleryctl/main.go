// Command galleryctl operates on the gallery record store directly:
// snapshot export/import, activation, and watching the active exhibition.
package main

import (
	"fmt"
	"os"

	"gallery-kiosk/config"
	"gallery-kiosk/database"
	"gallery-kiosk/internal/logging"
	"gallery-kiosk/internal/mutation"
	"gallery-kiosk/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger zerolog.Logger

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "galleryctl",
		Short:         "Manage the gallery kiosk data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			logger = logging.Setup(config.LOG_LEVEL, config.LOG_FILE)
		},
	}

	flags := root.PersistentFlags()
	flags.String("db-driver", "", "postgres or sqlite (env DB_DRIVER)")
	flags.String("db-url", "", "postgres connection URL (env DB_URL)")
	flags.String("sqlite-path", "", "sqlite database file (env SQLITE_PATH)")
	flags.String("log-level", "", "log level (env LOG_LEVEL)")
	_ = config.Viper.BindPFlag("DB_DRIVER", flags.Lookup("db-driver"))
	_ = config.Viper.BindPFlag("DB_URL", flags.Lookup("db-url"))
	_ = config.Viper.BindPFlag("SQLITE_PATH", flags.Lookup("sqlite-path"))
	_ = config.Viper.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))

	root.AddCommand(
		newExportCmd(),
		newImportCmd(),
		newActivateCmd(),
		newWatchCmd(),
		newRefreshCmd(),
	)
	return root
}

// openStore connects with the configured driver. Writes publish nothing
// in-process; running servers learn about them through their own listener.
func openStore() (*store.GormStore, error) {
	if err := config.CheckDatabase(); err != nil {
		return nil, err
	}
	dsn := config.DB_URL
	if config.DB_DRIVER == config.DriverSQLite {
		dsn = config.SQLITE_PATH
	}
	db, err := database.Open(config.DB_DRIVER, dsn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store.NewGormStore(db, nil), nil
}

func openMutator() (*mutation.Mutator, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	return mutation.New(st, logger), nil
}

func viperString(key string) string {
	return config.Viper.GetString(key)
}
