package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"pool-league/internal/config"
	"pool-league/internal/db"
)

func main() {
	// Load config
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to MongoDB
	mongodb, err := db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongodb.Close(ctx)
	}()

	ctx := context.Background()

	// Delete all matches
	matchesResult, err := mongodb.Matches().DeleteMany(ctx, map[string]interface{}{})
	if err != nil {
		log.Fatalf("Failed to delete matches: %v", err)
	}
	fmt.Printf("Deleted %d matches\n", matchesResult.DeletedCount)

	// Delete all players
	playersResult, err := mongodb.Players().DeleteMany(ctx, map[string]interface{}{})
	if err != nil {
		log.Fatalf("Failed to delete players: %v", err)
	}
	fmt.Printf("Deleted %d players\n", playersResult.DeletedCount)

	// Delete all teams
	teamsResult, err := mongodb.Teams().DeleteMany(ctx, map[string]interface{}{})
	if err != nil {
		log.Fatalf("Failed to delete teams: %v", err)
	}
	fmt.Printf("Deleted %d teams\n", teamsResult.DeletedCount)

	// Delete all tournaments
	tournamentsResult, err := mongodb.Tournaments().DeleteMany(ctx, map[string]interface{}{})
	if err != nil {
		log.Fatalf("Failed to delete tournaments: %v", err)
	}
	fmt.Printf("Deleted %d tournaments\n", tournamentsResult.DeletedCount)

	fmt.Println("Database cleared successfully")
}
