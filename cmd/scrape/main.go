// Command scrape runs the extraction pipeline for a single product URL and
// writes the export rows as CSV. With -ingest the record is also persisted
// to the catalog first, so rows carry the assigned database id.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/turmarkt/trendyol-catalog/internal/catalog"
	"github.com/turmarkt/trendyol-catalog/internal/config"
	"github.com/turmarkt/trendyol-catalog/internal/database"
	"github.com/turmarkt/trendyol-catalog/internal/export"
	"github.com/turmarkt/trendyol-catalog/internal/scraper"
)

func main() {
	ingest := flag.Bool("ingest", false, "persist the record to the catalog before exporting")
	output := flag.String("o", "", "write CSV to this file instead of stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scrape [-ingest] [-o file] <product-url>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc := scraper.NewService(cfg.Scraper, logger)

	record, err := svc.Scrape(ctx, flag.Arg(0))
	if err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}

	var productID int64
	if *ingest {
		db, err := database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Name,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		productID, err = catalog.NewService(db, nil, logger).Ingest(ctx, record, flag.Arg(0))
		if err != nil {
			logger.Error("ingestion failed", "error", err)
			os.Exit(1)
		}
	}

	rows := export.Convert(record, productID)
	if *output != "" {
		if err := writeCSVFile(*output, rows); err != nil {
			logger.Error("failed to write CSV", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := writeCSV(os.Stdout, rows); err != nil {
		logger.Error("failed to write CSV", "error", err)
		os.Exit(1)
	}
}

// writeCSVFile writes the rows to path. The close error is surfaced: a
// flush that only fails at close must not report success.
func writeCSVFile(path string, rows []export.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeCSV(f, rows); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// writeCSV emits the rows in the shape the downstream importer expects:
// UTF-8 BOM, CRLF line endings.
func writeCSV(out io.Writer, rows []export.Row) error {
	if _, err := out.Write([]byte("\ufeff")); err != nil {
		return err
	}

	w := csv.NewWriter(out)
	w.UseCRLF = true

	if err := w.Write(export.Columns()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
