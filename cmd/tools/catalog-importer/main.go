// cmd/tools/catalog-importer/main.go
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"emailbuilder/internal/catalog"
	"emailbuilder/internal/common/config"
	"emailbuilder/internal/common/database"
	"emailbuilder/internal/models"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS products (
	sku               TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	category          TEXT NOT NULL DEFAULT '',
	price             TEXT NOT NULL DEFAULT '',
	brand             TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	image_placeholder TEXT NOT NULL DEFAULT '',
	related_skus      TEXT NOT NULL DEFAULT ''
)`

const upsertSQL = `
INSERT INTO products (sku, name, category, price, brand, description, image_placeholder, related_skus)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (sku) DO UPDATE SET
	name = EXCLUDED.name,
	category = EXCLUDED.category,
	price = EXCLUDED.price,
	brand = EXCLUDED.brand,
	description = EXCLUDED.description,
	image_placeholder = EXCLUDED.image_placeholder,
	related_skus = EXCLUDED.related_skus`

func main() {
	csvPath := flag.String("csv", "data/products.csv", "Path to the products CSV file")
	host := flag.String("host", "localhost", "PostgreSQL host")
	port := flag.Int("port", 5432, "PostgreSQL port")
	user := flag.String("user", envOr("DB_USER", "postgres"), "PostgreSQL user")
	password := flag.String("password", os.Getenv("DB_PASSWORD"), "PostgreSQL password (or DB_PASSWORD)")
	dbName := flag.String("dbname", "emailbuilder", "PostgreSQL database name")
	sslMode := flag.String("sslmode", "disable", "PostgreSQL sslmode")
	truncate := flag.Bool("truncate", false, "Delete existing products before importing")
	dryRun := flag.Bool("dry-run", false, "Parse and report the CSV without touching the database")
	flag.Parse()

	store, err := catalog.NewCSVStore(*csvPath)
	if err != nil {
		fmt.Printf("Error reading catalog: %v\n", err)
		os.Exit(1)
	}
	products := store.Products()
	fmt.Printf("Parsed %d products from %s\n", len(products), *csvPath)

	if *dryRun {
		for _, p := range products {
			fmt.Printf("  %s  %-30s %-10s related=%s\n", p.SKU, p.Name, p.Category, strings.Join(p.RelatedSKUs, ","))
		}
		fmt.Println("Dry run; database untouched.")
		return
	}

	pg, err := database.NewPostgres(config.PostgresConfig{
		Host:     *host,
		Port:     *port,
		Database: *dbName,
		User:     *user,
		Password: *password,
		SSLMode:  *sslMode,
	})
	if err != nil {
		fmt.Printf("Error connecting to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := pg.Ping(ctx); err != nil {
		fmt.Printf("Error pinging PostgreSQL: %v\n", err)
		os.Exit(1)
	}

	imported, err := importProducts(ctx, pg.DB, products, *truncate)
	if err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d products into %s/products\n", imported, *dbName)
}

// importProducts runs the whole import in one transaction so a partial
// failure leaves the table unchanged.
func importProducts(ctx context.Context, db *sql.DB, products []models.Product, truncate bool) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL); err != nil {
		return 0, fmt.Errorf("create products table: %w", err)
	}

	if truncate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return 0, fmt.Errorf("clear products table: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	imported := 0
	for _, p := range products {
		_, err := stmt.ExecContext(ctx,
			p.SKU, p.Name, p.Category, p.Price,
			p.Brand, p.Description, p.ImagePlaceholder,
			strings.Join(p.RelatedSKUs, ","),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return imported, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
