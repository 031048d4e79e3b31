package main

import (
	"context"
	"flag"
	"time"

	ledgerrepo "studiodesk/internal/ledger/repository"
	mongoMigration "studiodesk/internal/migrations/mongo"
	rosterrepo "studiodesk/internal/roster/repository"
	"studiodesk/internal/seed"
	"studiodesk/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline for the job")
	seedFile := flag.String("seed", "", "JSON seed file applied after migrating (defaults to SEED_FILE)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	path := *seedFile
	if path == "" {
		path = cfg.SeedFile
	}
	if path != "" {
		f, err := seed.Load(path)
		if err != nil {
			cfg.Log.Fatal("Failed to load seed file", "path", path, "error", err)
		}
		err = seed.Apply(ctx, f, seed.Repositories{
			Members:       ledgerrepo.NewMongoMemberRepository(cfg),
			Professionals: rosterrepo.NewMongoProfessionalRepository(cfg),
			Users:         rosterrepo.NewMongoUserRepository(cfg),
		}, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to apply seed file", "path", path, "error", err)
		}
	}

	cfg.Log.Info("Migration completed successfully")
}
