package main

import (
	"flag"
	"log"
	"os"
	"time"

	"coldemail/config"
	"coldemail/db"
	"coldemail/models"
	"coldemail/services"
)

func main() {
	since := flag.Duration("since", 30*24*time.Hour, "export deliveries newer than this")
	out := flag.String("out", "deliveries.xlsx", "output workbook path")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if !cfg.DeliveryLogEnabled() {
		log.Fatal("Delivery log is disabled: set DB_PATH or TURSO_DATABASE_URL")
	}

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.WebhookDelivery{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	n, err := services.ExportDeliveries(db.DB, time.Now().Add(-*since), f)
	if err != nil {
		log.Fatalf("Failed to export deliveries: %v", err)
	}

	log.Printf("Exported %d deliveries to %s", n, *out)
}
