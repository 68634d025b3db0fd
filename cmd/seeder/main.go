package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/super-palm-tree/internal/atlas"
	"github.com/mauv0809/super-palm-tree/internal/database"
	"github.com/mauv0809/super-palm-tree/internal/leaderboard"
)

// Seeds a demo map with dimensions, players, archives and scores so the
// leaderboard endpoints have something to show during development.
func main() {
	log.Info("Starting database seeder...")

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	atlasStore := atlas.New(db)
	boardStore := leaderboard.New(db)

	description := "Seeded demo map"
	demoMap, err := atlasStore.CreateMap("Verdant Hollow", &description, json.RawMessage(`{"difficulty":"normal"}`))
	if err != nil {
		log.Fatalf("Failed to create map: %s", err)
	}

	timeUnit := "seconds"
	timeDim, err := boardStore.CreateDimension(demoMap.ID, "best-time", &timeUnit, leaderboard.SortAscending)
	if err != nil {
		log.Fatalf("Failed to create time dimension: %s", err)
	}
	scoreDim, err := boardStore.CreateDimension(demoMap.ID, "score", nil, leaderboard.SortDescending)
	if err != nil {
		log.Fatalf("Failed to create score dimension: %s", err)
	}

	for i := 1; i <= 4; i++ {
		externalID := fmt.Sprintf("seed-player-%d", i)
		player, err := atlasStore.UpsertPlayer(externalID, fmt.Sprintf("Seeder Player %d", i))
		if err != nil {
			log.Fatalf("Failed to upsert player %s: %s", externalID, err)
		}

		archive, err := atlasStore.CreateArchive(demoMap.ID, player.ID, "slot-1", json.RawMessage(`{"checkpoint":3}`))
		if err != nil {
			log.Fatalf("Failed to create archive for %s: %s", externalID, err)
		}

		scores := []leaderboard.ScoreInput{
			{DimensionID: timeDim.ID, Value: 60 + rand.Float64()*300},
			{DimensionID: scoreDim.ID, Value: float64(rand.Intn(5000))},
		}
		if _, err := boardStore.SubmitScores(archive.ID, player.ID, scores); err != nil {
			log.Fatalf("Failed to submit scores for %s: %s", externalID, err)
		}
	}

	log.Info("Seeding complete", "map", demoMap.ID)
}
