package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCleanupLockIntegration(t *testing.T) {
	database := setupMongo(t)
	svc := NewStaleMatchCleanupService(database)
	ctx := context.Background()

	// First acquisition ever: the upsert creates the lock document and
	// FindOneAndUpdate has no prior document to return. That still counts
	// as holding the lock.
	require.True(t, svc.tryAcquireLock(ctx), "first acquisition on a fresh database must succeed")

	assert.False(t, svc.tryAcquireLock(ctx), "lock is already held")

	svc.releaseLock(ctx)
	assert.True(t, svc.tryAcquireLock(ctx), "lock should be free after release")
	svc.releaseLock(ctx)
}

func TestCleanupPassDiscardsStaleMatches(t *testing.T) {
	database := setupMongo(t)
	svc := NewStaleMatchCleanupService(database)

	judy := seedPlayer(t, database, "Judy", 500, nil)
	mike := seedPlayer(t, database, "Mike", 500, nil)

	stale := concludedMatch(judy, mike)
	stale.Points1 = 14
	stale.Points2 = 5
	stale.Games = stale.Games[:1]
	seedMatch(t, database, stale)
	_, err := database.Matches().UpdateOne(context.Background(),
		bson.M{"_id": stale.ID},
		bson.M{"$set": bson.M{"updatedAt": time.Now().Add(-25 * time.Hour)}},
	)
	require.NoError(t, err)

	fresh := concludedMatch(mike, judy)
	seedMatch(t, database, fresh)

	// A fresh database means the pass has to create the lock itself. The
	// stale match must still be swept on this first pass.
	svc.runCleanupPass()

	err = database.Matches().FindOne(context.Background(), bson.M{"_id": stale.ID}).Err()
	assert.ErrorIs(t, err, mongo.ErrNoDocuments, "abandoned match should be discarded")

	err = database.Matches().FindOne(context.Background(), bson.M{"_id": fresh.ID}).Err()
	assert.NoError(t, err, "recently updated match must survive the sweep")
}
