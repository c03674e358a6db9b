package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/dmbrands/reorder/backend-go/internal/cache"
	"github.com/dmbrands/reorder/backend-go/internal/config"
	"github.com/dmbrands/reorder/backend-go/internal/reorder"
	"github.com/dmbrands/reorder/backend-go/internal/service"
	"github.com/dmbrands/reorder/backend-go/internal/zoho"
	"github.com/dmbrands/reorder/backend-go/pkg/logger"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	logger.Setup("info", true)

	app := &cli.App{
		Name:  "reorder",
		Usage: "Stock reorder analysis tools",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a one-shot analysis and print the report as JSON",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "brands",
						Usage: "Limit the analysis to these brands",
					},
					&cli.BoolFlag{
						Name:  "quick",
						Usage: "Skip sales history and use the stock threshold",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write the report to this file instead of stdout",
					},
				},
				Action: runAnalysis,
			},
			{
				Name:  "backfill",
				Usage: "Mirror invoice lines into the database for velocity queries",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "start",
						Usage: "Start date (YYYY-MM-DD), defaults to 400 days ago",
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "End date (YYYY-MM-DD), defaults to today",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runBackfill,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func runAnalysis(c *cli.Context) error {
	cfg := config.Load()
	zohoClient := zoho.NewClient(cfg.Zoho)

	svc := service.NewReorderService(cfg, zohoClient, zohoClient, zohoClient, nil, cache.NewNoopSnapshotCache(), nil)

	report, err := svc.Report(c.Context, reorder.Options{
		Brands: c.StringSlice("brands"),
		Quick:  c.Bool("quick"),
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if path := c.String("output"); path != "" {
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("path", path).Msg("report written")
		return nil
	}

	fmt.Println(string(payload))
	return nil
}

func runBackfill(c *cli.Context) error {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	end := c.String("end")
	if end == "" {
		end = time.Now().Format("2006-01-02")
	}
	start := c.String("start")
	if start == "" {
		start = time.Now().AddDate(0, 0, -400).Format("2006-01-02")
	}

	cfg := config.Load()
	zohoClient := zoho.NewClient(cfg.Zoho)

	lines, err := zohoClient.InvoiceLines(c.Context, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch invoice lines: %w", err)
	}
	log.Info().Int("lines", len(lines)).Str("start", start).Str("end", end).
		Msg("fetched invoice lines")

	if err := ensureSchema(c.Context, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace the range wholesale so re-running a window never double
	// counts edited or voided invoices.
	if _, err := tx.ExecContext(c.Context,
		`DELETE FROM invoice_lines WHERE invoice_date BETWEEN $1 AND $2`, start, end); err != nil {
		return fmt.Errorf("failed to clear existing range: %w", err)
	}

	stmt, err := tx.PrepareContext(c.Context, `
        INSERT INTO invoice_lines (invoice_id, invoice_date, sku, quantity)
        VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, line := range lines {
		if line.Date == "" {
			continue
		}
		if _, err := stmt.ExecContext(c.Context, line.InvoiceID, line.Date, line.SKU, line.Quantity); err != nil {
			return fmt.Errorf("failed to insert line for %s: %w", line.SKU, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit backfill: %w", err)
	}

	log.Info().Int("lines", len(lines)).Msg("backfill complete")
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS invoice_lines (
            id BIGSERIAL PRIMARY KEY,
            invoice_id TEXT NOT NULL,
            invoice_date DATE NOT NULL,
            sku TEXT NOT NULL,
            quantity INTEGER NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_invoice_lines_date ON invoice_lines (invoice_date);
        CREATE INDEX IF NOT EXISTS idx_invoice_lines_sku ON invoice_lines (sku)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
