package main

import (
	"context"
	"log"
	"os"

	"github.com/brcarts/playatracker/internal/adapters/postgres"
	"github.com/brcarts/playatracker/internal/importer"
	"github.com/brcarts/playatracker/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importer <file.geojson ...> | importer seed-fence")
	}

	cfg, err := config.Load("playatracker-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	im := importer.New(
		postgres.NewLandmarkRepo(db),
		postgres.NewStreetRepo(db),
		postgres.NewBoundaryRepo(db),
	)

	if os.Args[1] == "seed-fence" {
		if err := im.SeedFence(ctx); err != nil {
			log.Fatalf("seed-fence: %v", err)
		}
		log.Println("perimeter fence seeded")
		return
	}

	for _, path := range os.Args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}

		stats, err := im.Import(ctx, data)
		if err != nil {
			log.Fatalf("import %s: %v", path, err)
		}

		log.Printf("%s: %d landmarks, %d streets, %d boundaries, %d skipped",
			path, stats.Landmarks, stats.Streets, stats.Boundaries, stats.Skipped)
	}
}
