package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	mongorepo "github.com/ArowuTest/luckydraw-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/ArowuTest/luckydraw-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

// archiveexport writes the archived winners of one batch to a CSV or XLSX file
func main() {
	batch := flag.String("batch", "", "batch id to export (all batches when empty)")
	out := flag.String("out", "", "output file, format taken from the extension")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get MongoDB connection string from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}

	// Get database name from environment
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "luckydraw"
	}

	if *out == "" {
		*out = "results_" + time.Now().Format("20060102") + "." + utils.FormatXLSX.Extension()
	}
	format, err := utils.FormatFromFilename(*out)
	if err != nil {
		log.Fatalf("Unsupported output file %s: %v", *out, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Connect to MongoDB
	client, err := mongodb.NewClient(ctx, mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := mongorepo.NewWinnerRepository(client.Database(dbName))
	rows, err := collectRows(ctx, repo, *batch)
	if err != nil {
		log.Fatalf("Failed to read winner archive: %v", err)
	}
	if len(rows) == 0 {
		log.Fatal("No archived winners to export")
	}

	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer file.Close()

	if err := services.WriteResults(file, format, rows); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	log.Printf("Exported %d winners to %s", len(rows), *out)
}

// collectRows pages through the archive until a short page is returned
func collectRows(ctx context.Context, repo repositories.WinnerRepository, batch string) ([]models.ExportRow, error) {
	var rows []models.ExportRow
	for page := 1; ; page++ {
		var (
			winners []*models.WinnerRecord
			err     error
		)
		if batch == "" {
			winners, err = repo.FindAll(ctx, page, repositories.MaxPageSize)
		} else {
			winners, err = repo.FindByBatch(ctx, batch, page, repositories.MaxPageSize)
		}
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		for _, w := range winners {
			rows = append(rows, w.ExportRow())
		}
		if len(winners) < repositories.MaxPageSize {
			return rows, nil
		}
	}
}
