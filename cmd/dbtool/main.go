package main

import (
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/config"
	"collection-route-service/internal/platform/db"
	"collection-route-service/internal/platform/logger"
	"context"
	"flag"

	"github.com/sirupsen/logrus"
)

// dbtool prepares a route database: it creates the schema and loads the
// depot reference data.
func main() {
	cfg := config.MustLoad()
	logger.Setup(cfg.Env, cfg.LogLevel, cfg.LogFile)

	seedPath := flag.String("seed", cfg.DepotSeedPath, "depot seed JSON file")
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding depots")
	flag.Parse()

	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("database unavailable")
	}
	defer conn.Close()

	logrus.WithField("driver", cfg.DBDriver).Info("initializing database schema")
	if err := repositories.InitSchema(conn); err != nil {
		logrus.WithError(err).Fatal("schema initialization failed")
	}
	logrus.Info("schema ready")

	if *schemaOnly {
		return
	}

	logrus.WithField("path", *seedPath).Info("seeding depots")
	if err := repositories.SeedDepotsFromJSON(context.Background(), conn, *seedPath); err != nil {
		logrus.WithError(err).Fatal("seeding failed")
	}
	logrus.Info("seeding complete")
}
