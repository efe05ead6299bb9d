// Command clean-db empties every StorePulse table. It refuses to run when
// APP_ENV is production.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/store/postgres"
)

// tables in reverse dependency order
var tables = []string{
	"orders",
	"customers",
	"products",
	"tenants",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		fmt.Fprintln(os.Stderr, "Refusing to clean a production database.")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	fmt.Println("Cleaning database...")
	for _, table := range tables {
		if _, err := conn.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			fmt.Printf("Warning: failed to truncate %s: %v\n", table, err)
			continue
		}
		fmt.Printf("✓ Cleared %s\n", table)
	}

	fmt.Println("\n✓✓✓ Database cleaned successfully!")
}
