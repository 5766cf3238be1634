package services

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pool-league/internal/db"
	"pool-league/internal/models"
	"pool-league/internal/scoring"
)

// setupMongo starts a single-node replica set container and connects to
// it. Finalization runs inside multi-document transactions, which Mongo
// only supports on a replica set.
func setupMongo(t *testing.T) *db.MongoDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	log.Println("Starting MongoDB container...")
	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err, "failed to start MongoDB container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("Failed to terminate MongoDB container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	log.Printf("MongoDB container started, uri: %s", uri)

	database, err := db.NewMongoDB(uri, "pool_league_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := database.Close(context.Background()); err != nil {
			log.Printf("Failed to close MongoDB connection: %v", err)
		}
	})
	return database
}

func seedPlayer(t *testing.T, database *db.MongoDB, name string, rating int, teamID *primitive.ObjectID) *models.Player {
	t.Helper()
	now := time.Now()
	p := &models.Player{
		ID:             primitive.NewObjectID(),
		Name:           name,
		TeamID:         teamID,
		Status:         models.PlayerActive,
		Rating:         rating,
		PreviousRating: rating,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := database.Players().InsertOne(context.Background(), p)
	require.NoError(t, err)
	return p
}

func seedTeam(t *testing.T, database *db.MongoDB, name string) *models.Team {
	t.Helper()
	now := time.Now()
	team := &models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := database.Teams().InsertOne(context.Background(), team)
	require.NoError(t, err)
	return team
}

func seedMatch(t *testing.T, database *db.MongoDB, m *models.Match) {
	t.Helper()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	_, err := database.Matches().InsertOne(context.Background(), m)
	require.NoError(t, err)
}

// concludedMatch builds an in-progress eight-ball match where player 1
// has reached the target: two games won 14-5, so 28 - 10 against 28/28.
func concludedMatch(p1, p2 *models.Player) *models.Match {
	return &models.Match{
		ID:           primitive.NewObjectID(),
		Player1ID:    p1.ID,
		Player2ID:    p2.ID,
		Player1Name:  p1.Name,
		Player2Name:  p2.Name,
		Team1ID:      p1.TeamID,
		Team2ID:      p2.TeamID,
		Discipline:   models.EightBall,
		PointsToWin1: 28,
		PointsToWin2: 28,
		Points1:      28,
		Points2:      10,
		Games: []models.GameLog{
			{GameNumber: 1, WinnerID: p1.ID, Points: 5},
			{GameNumber: 2, WinnerID: p1.ID, Points: 5},
		},
		Status: models.MatchInProgress,
	}
}

func reloadPlayer(t *testing.T, database *db.MongoDB, id primitive.ObjectID) *models.Player {
	t.Helper()
	var p models.Player
	err := database.Players().FindOne(context.Background(), bson.M{"_id": id}).Decode(&p)
	require.NoError(t, err)
	return &p
}

func reloadTeam(t *testing.T, database *db.MongoDB, id primitive.ObjectID) *models.Team {
	t.Helper()
	var team models.Team
	err := database.Teams().FindOne(context.Background(), bson.M{"_id": id}).Decode(&team)
	require.NoError(t, err)
	return &team
}

func reloadMatch(t *testing.T, database *db.MongoDB, id primitive.ObjectID) *models.Match {
	t.Helper()
	var m models.Match
	err := database.Matches().FindOne(context.Background(), bson.M{"_id": id}).Decode(&m)
	require.NoError(t, err)
	return &m
}

func TestFinalizeIntegration(t *testing.T) {
	database := setupMongo(t)
	svc := NewFinalizationService(database)
	ctx := context.Background()

	t.Run("even match applies ratings and stats exactly once", func(t *testing.T) {
		sharks := seedTeam(t, database, "Corner Pocket Sharks")
		cues := seedTeam(t, database, "Broken Cues")
		alice := seedPlayer(t, database, "Alice", 500, &sharks.ID)
		bob := seedPlayer(t, database, "Bob", 500, &cues.ID)
		m := concludedMatch(alice, bob)
		seedMatch(t, database, m)

		got, err := svc.Finalize(ctx, m.ID)
		require.NoError(t, err)

		assert.Equal(t, models.MatchCompleted, got.Status)
		assert.Equal(t, "28 - 10", got.Score)
		require.NotNil(t, got.RatingChanges)
		assert.Equal(t, 16, got.RatingChanges.Player1Change)
		assert.Equal(t, -16, got.RatingChanges.Player2Change)
		assert.Equal(t, 516, got.RatingChanges.Player1NewRating)
		assert.Equal(t, 484, got.RatingChanges.Player2NewRating)
		require.NotNil(t, got.CompletedAt)

		winner := reloadPlayer(t, database, alice.ID)
		assert.Equal(t, 516, winner.Rating)
		assert.Equal(t, 500, winner.PreviousRating)
		assert.Equal(t, 1, winner.Matches8Ball)
		assert.Equal(t, 1, winner.Wins8Ball)
		assert.Equal(t, 28, winner.Points8Ball)

		loser := reloadPlayer(t, database, bob.ID)
		assert.Equal(t, 484, loser.Rating)
		assert.Equal(t, 500, loser.PreviousRating)
		assert.Equal(t, 1, loser.Matches8Ball)
		assert.Equal(t, 0, loser.Wins8Ball)
		assert.Equal(t, 10, loser.Points8Ball)

		winnerTeam := reloadTeam(t, database, sharks.ID)
		assert.Equal(t, 1, winnerTeam.MatchesPlayed8Ball)
		assert.Equal(t, 1, winnerTeam.Wins8Ball)
		assert.Equal(t, 28, winnerTeam.Points8Ball)

		loserTeam := reloadTeam(t, database, cues.ID)
		assert.Equal(t, 1, loserTeam.MatchesPlayed8Ball)
		assert.Equal(t, 0, loserTeam.Wins8Ball)
		assert.Equal(t, 10, loserTeam.Points8Ball)
	})

	t.Run("second finalize is rejected without touching stats", func(t *testing.T) {
		carol := seedPlayer(t, database, "Carol", 500, nil)
		dave := seedPlayer(t, database, "Dave", 500, nil)
		m := concludedMatch(carol, dave)
		seedMatch(t, database, m)

		_, err := svc.Finalize(ctx, m.ID)
		require.NoError(t, err)

		_, err = svc.Finalize(ctx, m.ID)
		require.ErrorIs(t, err, scoring.ErrMatchConcluded)

		winner := reloadPlayer(t, database, carol.ID)
		assert.Equal(t, 516, winner.Rating, "rating applied twice")
		assert.Equal(t, 500, winner.PreviousRating)
		assert.Equal(t, 1, winner.Matches8Ball, "match counted twice")
		assert.Equal(t, 1, winner.Wins8Ball)
		assert.Equal(t, 28, winner.Points8Ball)

		loser := reloadPlayer(t, database, dave.ID)
		assert.Equal(t, 484, loser.Rating)
		assert.Equal(t, 1, loser.Matches8Ball)
	})

	t.Run("missing opponent leaves the match in progress", func(t *testing.T) {
		erin := seedPlayer(t, database, "Erin", 500, nil)
		ghost := &models.Player{ID: primitive.NewObjectID(), Name: "Ghost", Rating: 500}
		m := concludedMatch(erin, ghost)
		seedMatch(t, database, m)

		_, err := svc.Finalize(ctx, m.ID)
		require.ErrorIs(t, err, ErrReferenceNotFound)

		p := reloadPlayer(t, database, erin.ID)
		assert.Equal(t, 500, p.Rating)
		assert.Equal(t, 0, p.Matches8Ball)

		stored := reloadMatch(t, database, m.ID)
		assert.Equal(t, models.MatchInProgress, stored.Status)
		assert.Nil(t, stored.RatingChanges)
	})

	t.Run("missing team rolls back player updates", func(t *testing.T) {
		frank := seedPlayer(t, database, "Frank", 500, nil)
		deletedTeam := primitive.NewObjectID()
		grace := seedPlayer(t, database, "Grace", 500, &deletedTeam)
		m := concludedMatch(frank, grace)
		seedMatch(t, database, m)

		_, err := svc.Finalize(ctx, m.ID)
		require.ErrorIs(t, err, ErrReferenceNotFound)

		// The player writes preceded the failing team write inside the
		// transaction; the abort must discard them.
		p := reloadPlayer(t, database, frank.ID)
		assert.Equal(t, 500, p.Rating)
		assert.Equal(t, 0, p.Matches8Ball)
		assert.Equal(t, 0, p.Points8Ball)

		stored := reloadMatch(t, database, m.ID)
		assert.Equal(t, models.MatchInProgress, stored.Status)
	})

	t.Run("not ready before either target is reached", func(t *testing.T) {
		heidi := seedPlayer(t, database, "Heidi", 500, nil)
		ivan := seedPlayer(t, database, "Ivan", 500, nil)
		m := concludedMatch(heidi, ivan)
		m.Points1 = 14
		m.Points2 = 5
		m.Games = m.Games[:1]
		seedMatch(t, database, m)

		_, err := svc.Finalize(ctx, m.ID)
		require.ErrorIs(t, err, ErrNotReady)

		stored := reloadMatch(t, database, m.ID)
		assert.Equal(t, models.MatchInProgress, stored.Status)
	})
}
