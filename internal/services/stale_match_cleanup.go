package services

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"pool-league/internal/audit"
	"pool-league/internal/db"
	"pool-league/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StaleMatchCleanupService periodically discards in-progress matches
// nobody has scored for a long time (e.g. a scoring session abandoned at
// the table). Cancellation is a plain discard: the match document is
// deleted before any rating or team stat was ever written.
type StaleMatchCleanupService struct {
	db             *db.MongoDB
	stopCh         chan struct{}
	interval       time.Duration
	staleThreshold time.Duration
}

// NewStaleMatchCleanupService creates a new cleanup service.
func NewStaleMatchCleanupService(database *db.MongoDB) *StaleMatchCleanupService {
	return &StaleMatchCleanupService{
		db:             database,
		stopCh:         make(chan struct{}),
		interval:       1 * time.Hour,
		staleThreshold: 24 * time.Hour,
	}
}

// Start begins the periodic cleanup loop in a background goroutine.
func (s *StaleMatchCleanupService) Start() {
	go s.runCleanupLoop()
	log.Println("Stale match cleanup service started (interval: 1h, threshold: 24h)")
}

// Stop signals the cleanup loop to exit.
func (s *StaleMatchCleanupService) Stop() {
	close(s.stopCh)
	log.Println("Stale match cleanup service stopped")
}

func (s *StaleMatchCleanupService) runCleanupLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runCleanupPass()
		}
	}
}

func (s *StaleMatchCleanupService) runCleanupPass() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Try to acquire distributed lock
	if !s.tryAcquireLock(ctx) {
		return // Another server is handling cleanup
	}
	defer s.releaseLock(ctx)

	matches, err := s.findStaleMatches(ctx)
	if err != nil {
		log.Printf("Stale match cleanup: failed to query stale matches: %v", err)
		return
	}

	if len(matches) == 0 {
		return
	}

	log.Printf("Stale match cleanup: found %d abandoned match(es)", len(matches))

	for i := range matches {
		s.discardStaleMatch(ctx, &matches[i])
	}
}

func (s *StaleMatchCleanupService) findStaleMatches(ctx context.Context) ([]models.Match, error) {
	cutoff := time.Now().Add(-s.staleThreshold)

	filter := bson.M{
		"status":    string(models.MatchInProgress),
		"updatedAt": bson.M{"$lt": cutoff},
	}

	cursor, err := s.db.Matches().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []models.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}

	return matches, nil
}

func (s *StaleMatchCleanupService) discardStaleMatch(ctx context.Context, m *models.Match) {
	// Guard on status so a match finalized between query and delete is
	// left alone.
	res, err := s.db.Matches().DeleteOne(ctx, bson.M{
		"_id":    m.ID,
		"status": string(models.MatchInProgress),
	})
	if err != nil {
		log.Printf("Stale match cleanup: failed to discard match %s: %v", m.ID.Hex(), err)
		return
	}
	if res.DeletedCount == 0 {
		return
	}

	log.Printf("Stale match cleanup: discarded abandoned match %s (%s vs %s)",
		m.ID.Hex(), m.Player1Name, m.Player2Name)
	audit.LogEvent(s.db, audit.EventMatchCancelled, &m.ID, nil, "abandoned match discarded by cleanup")
}

func (s *StaleMatchCleanupService) tryAcquireLock(ctx context.Context) bool {
	hostname, err := os.Hostname()
	if err != nil {
		log.Printf("Failed to get hostname: %v", err)
		hostname = "unknown"
	}

	now := time.Now()
	lockExpiry := now.Add(5 * time.Minute)

	filter := bson.M{
		"_id": "stale_match_cleanup",
		"$or": []bson.M{
			{"lockedUntil": bson.M{"$exists": false}},
			{"lockedUntil": bson.M{"$lt": now}},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"lockedUntil": lockExpiry,
			"lockedBy":    hostname,
			"lockedAt":    now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true)
	err = s.db.CleanupLocks().FindOneAndUpdate(ctx, filter, update, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		// The upsert created the lock document, so there was no prior
		// document to return. The lock is ours.
		return true
	}
	if err != nil {
		// Another server already holds the lock (duplicate key or no match)
		return false
	}

	return true
}

func (s *StaleMatchCleanupService) releaseLock(ctx context.Context) {
	_, err := s.db.CleanupLocks().UpdateOne(ctx,
		bson.M{"_id": "stale_match_cleanup"},
		bson.M{"$set": bson.M{"lockedUntil": time.Now()}},
	)
	if err != nil {
		log.Printf("Stale match cleanup: failed to release lock: %v", err)
	}
}
