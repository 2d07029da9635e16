package migration

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"
	"educenter.io/educenter-server/builder/store/database"
	"educenter.io/educenter-server/builder/store/database/migrations"
	"educenter.io/educenter-server/common/config"
)

var migrator *migrate.Migrator

func init() {
	Cmd.AddCommand(
		initCmd,
		migrateCmd,
		rollbackCmd,
		statusCmd,
	)
}

var Cmd = &cobra.Command{
	Use:   "migration",
	Short: "run database migrations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		db, err := database.NewDB(cmd.Context(), database.DBConfig{
			Dialect: database.Dialect(cfg.Database.Driver),
			DSN:     cfg.Database.DSN,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		migrator = migrate.NewMigrator(db.BunDB, migrations.Migrations)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "create migration tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrator.Init(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := migrator.Init(cmd.Context()); err != nil {
			return err
		}
		return runMigrate(cmd.Context())
	},
}

func runMigrate(ctx context.Context) error {
	if err := migrator.Lock(ctx); err != nil {
		return err
	}
	defer func() {
		_ = migrator.Unlock(ctx)
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		fmt.Println("there are no new migrations to run (database is up to date)")
		return nil
	}
	fmt.Printf("migrated to %s\n", group)
	return nil
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "rollback the last migration group",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, err := migrator.Rollback(cmd.Context())
		if err != nil {
			return err
		}
		if group.IsZero() {
			fmt.Println("there are no groups to roll back")
			return nil
		}
		fmt.Printf("rolled back %s\n", group)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "print migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := migrator.MigrationsWithStatus(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("migrations: %s\n", ms)
		fmt.Printf("unapplied migrations: %s\n", ms.Unapplied())
		fmt.Printf("last migration group: %s\n", ms.LastGroup())
		return nil
	},
}
