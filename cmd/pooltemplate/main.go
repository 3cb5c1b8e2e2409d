package main

import (
	"flag"
	"log"
	"os"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/joho/godotenv"
)

// pooltemplate writes a pool file pre-filled with the configured default pool
func main() {
	out := flag.String("out", "pool_template.xlsx", "output file, format taken from the extension")
	empty := flag.Bool("empty", false, "write the header row only")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	format, err := utils.FormatFromFilename(*out)
	if err != nil {
		log.Fatalf("Unsupported output file %s: %v", *out, err)
	}

	var ids []string
	if !*empty {
		ids = utils.SequentialIdentifiers(cfg.Pool.Start, cfg.Pool.End, cfg.Pool.PadWidth)
	}

	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer file.Close()

	if err := utils.WritePoolTemplate(file, format, cfg.Pool.HeaderLabel, ids); err != nil {
		log.Fatalf("Failed to write template: %v", err)
	}
	log.Printf("Wrote %d identifiers to %s", len(ids), *out)
}
