// Package main creates the reference database and seeds it with the built-in
// rebate and benchmark tables.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/services/database"
	"home-energy-audit/internal/services/reference"
)

func main() {
	fmt.Println("=== Reference Database Initialization ===")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	databaseURL := cfg.DatabaseURL()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// First connect to default 'postgres' database to create our database
	adminURL, dbName, err := adminDatabaseURL(databaseURL)
	if err != nil {
		fmt.Printf("❌ Invalid database URL: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("📡 Connecting to PostgreSQL server...")

	adminConn, err := pgx.Connect(ctx, adminURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}

	var exists bool
	err = adminConn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
	if err != nil {
		fmt.Printf("❌ Failed to check database existence: %v\n", err)
		adminConn.Close(ctx)
		os.Exit(1)
	}

	if !exists {
		fmt.Printf("📦 Creating '%s' database...\n", dbName)
		if _, err := adminConn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
			fmt.Printf("❌ Failed to create database: %v\n", err)
			adminConn.Close(ctx)
			os.Exit(1)
		}
		fmt.Printf("✅ Database '%s' created!\n", dbName)
	} else {
		fmt.Printf("✅ Database '%s' already exists\n", dbName)
	}
	adminConn.Close(ctx)

	fmt.Printf("📡 Connecting to %s database...\n", dbName)
	db, err := database.NewFromURL(ctx, databaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("🚀 Creating reference schema...")
	if err := db.Migrate(ctx); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	tables := reference.Builtin()
	fmt.Println("🌱 Seeding rebates and benchmarks...")
	if err := db.SeedReference(ctx, tables.Rebates, tables.Benchmarks); err != nil {
		fmt.Printf("❌ Failed to seed reference data: %v\n", err)
		os.Exit(1)
	}

	// Verify by reading back what the service will load
	loaded, err := database.NewReferenceRepository(db.SQLDB()).LoadTables(ctx)
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not verify reference data: %v\n", err)
	} else {
		fmt.Printf("   📦 Rebates in database: %d\n", len(loaded.Rebates))
		fmt.Printf("   📊 Regional benchmarks: %d\n", len(loaded.Benchmarks))
	}

	fmt.Println()
	fmt.Println("✅ Reference database ready!")
}

// adminDatabaseURL points the connection string at the maintenance database.
func adminDatabaseURL(databaseURL string) (string, string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", "", err
	}
	dbName := u.Path
	if len(dbName) > 0 && dbName[0] == '/' {
		dbName = dbName[1:]
	}
	if dbName == "" {
		return "", "", fmt.Errorf("database name missing from %q", u.Redacted())
	}
	u.Path = "/postgres"
	return u.String(), dbName, nil
}
