package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"pool-league/internal/config"
	"pool-league/internal/db"
	"pool-league/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	teamCount := flag.Int("teams", 4, "number of teams to create")
	playersPerTeam := flag.Int("players", 5, "players per team")
	seed := flag.Uint64("seed", 0, "faker seed (0 = random)")
	flag.Parse()

	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mongodb, err := db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongodb.Close(ctx)
	}()

	faker := gofakeit.New(*seed)
	ctx := context.Background()
	now := time.Now()

	for t := 0; t < *teamCount; t++ {
		team := &models.Team{
			Name:      faker.City() + " " + faker.NounCollectiveThing(),
			Captain:   faker.Name(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		res, err := mongodb.Teams().InsertOne(ctx, team)
		if err != nil {
			log.Fatalf("Failed to insert team: %v", err)
		}
		teamID := res.InsertedID.(primitive.ObjectID)
		fmt.Printf("Created team %s\n", team.Name)

		for p := 0; p < *playersPerTeam; p++ {
			rating := faker.Number(350, 700)
			player := &models.Player{
				Name:           faker.Name(),
				TeamID:         &teamID,
				Status:         models.PlayerActive,
				Rating:         rating,
				PreviousRating: rating,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if _, err := mongodb.Players().InsertOne(ctx, player); err != nil {
				log.Fatalf("Failed to insert player: %v", err)
			}
		}
	}

	// A few free agents round out the pool
	for i := 0; i < 3; i++ {
		player := &models.Player{
			Name:           faker.Name(),
			Status:         models.PlayerActive,
			Rating:         models.DefaultRating,
			PreviousRating: models.DefaultRating,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := mongodb.Players().InsertOne(ctx, player); err != nil {
			log.Fatalf("Failed to insert player: %v", err)
		}
	}

	fmt.Printf("Seeded %d teams and %d players\n", *teamCount, *teamCount**playersPerTeam+3)
}
