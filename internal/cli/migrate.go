package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiral023/eventhorizon-sub000/internal/config"
	"github.com/spiral023/eventhorizon-sub000/internal/database"
)

// NewMigrateCommand creates the migrate command. Opening a store applies
// its schema (SQLite) or indexes (MongoDB), so migrating is opening and
// reporting.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			out := cmd.OutOrStdout()
			if s, ok := store.(*database.Store); ok {
				v, err := s.SchemaVersion()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "sqlite %s: schema version %d\n", cfg.SQLitePath, v)
				return nil
			}
			if cfg.StoreDriver == config.DriverMongo {
				fmt.Fprintf(out, "mongo %s: indexes ensured\n", cfg.MongoDB)
			}
			return nil
		},
	}
}
