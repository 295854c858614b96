package main

import (
	"context"
	"flag"
	"log"

	"github.com/SIMPLYBOYS/smart_waste/internal/catalog"
	"github.com/SIMPLYBOYS/smart_waste/internal/config"
	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

func main() {
	path := flag.String("catalog", "", "YAML catalog to load instead of the built-in one")
	flag.Parse()

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := loadCatalog(*path)
	if err != nil {
		logger.Fatal("Failed to load catalog: %v", err)
	}

	store, err := db.NewDBService(db.PostgresOperations{}, dbCfg.DSN())
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer store.Close()

	logger.Info("Seeding database...")
	if _, err := c.Apply(context.Background(), store); err != nil {
		logger.Fatal("Seeding failed: %v", err)
	}
	logger.Info("Database seeded successfully")
}

func loadCatalog(path string) (catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
