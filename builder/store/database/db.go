package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/migrate"
	"educenter.io/educenter-server/builder/store/database/migrations"
)

type Dialect string

const DialectPostgres Dialect = "pg"

type DBConfig struct {
	Dialect Dialect
	DSN     string
}

type Operator struct {
	Core *bun.DB
}

type DB struct {
	Operator Operator
	BunDB    *bun.DB
}

func (db *DB) Close() error {
	return db.BunDB.Close()
}

var defaultDB *DB

// InitDB opens the database, runs pending migrations and installs the
// process-wide default handle used by the zero-arg store constructors.
func InitDB(config DBConfig) error {
	ctx := context.Background()
	db, err := NewDB(ctx, config)
	if err != nil {
		return fmt.Errorf("initializing DB connection: %w", err)
	}

	migrator := migrate.NewMigrator(db.BunDB, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("initializing DB migrations: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("running DB migrations: %w", err)
	}

	defaultDB = db
	return nil
}

func NewDB(ctx context.Context, config DBConfig) (*DB, error) {
	var sqlDB *sql.DB
	switch config.Dialect {
	case DialectPostgres:
		sqlDB = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(config.DSN)))
	default:
		return nil, fmt.Errorf("unknown database dialect %q", config.Dialect)
	}

	bunDB := bun.NewDB(sqlDB, pgdialect.New(), bun.WithDiscardUnknownColumns())
	if err := bunDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging %s database: %w", config.Dialect, err)
	}

	bunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),

		// BUNDEBUG=1 logs failed queries
		// BUNDEBUG=2 logs all queries
		bundebug.FromEnv("BUNDEBUG"),
	))

	return &DB{
		Operator: Operator{Core: bunDB},
		BunDB:    bunDB,
	}, nil
}

type times struct {
	CreatedAt time.Time `bun:",nullzero,notnull,skipupdate,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
