package main

// Run database migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate status

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"

	"bizplan-backend/internal/shared/config"
	"bizplan-backend/internal/shared/storage/db"
)

func main() {
	flag.Parse()
	cfg := config.Load()
	ctx := context.Background()

	sqlDB, dialect, err := open(ctx, cfg)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch cmd := strings.ToLower(flag.Arg(0)); cmd {
	case "", "up":
		err = db.RunMigrations(ctx, sqlDB, dialect)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB, dialect)
	default:
		log.Printf("unknown command %q (want up or status)", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Printf("migrate %s: %v", dialect, err)
		os.Exit(1)
	}
}

func open(ctx context.Context, cfg config.Config) (*sql.DB, string, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" && strings.TrimSpace(cfg.SQLitePath) != "" {
		sqliteDB, err := db.ConnectSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, "", err
		}
		return sqliteDB.DB, db.DialectSQLite, nil
	}
	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return nil, "", err
	}
	return sqlDB, db.DialectPostgres, nil
}
