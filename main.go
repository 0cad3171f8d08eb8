package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"pharmatrack/m/internal/api"
	"pharmatrack/m/internal/config"
	"pharmatrack/m/internal/database"
	"pharmatrack/m/internal/messaging"
	"pharmatrack/m/internal/migrations"
	"pharmatrack/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	if cfg.SeedCSV != "" {
		seed.LoadMedicines(db, cfg.SeedCSV)
	}

	events := messaging.NewNoopPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		events = messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Printf("publishing events to kafka topic %s", cfg.KafkaTopic)
	}
	defer events.Close()

	handler := api.New(db, cfg.Secret, events, cfg.PublicBaseURL)

	log.Printf("PharmaTrack server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
