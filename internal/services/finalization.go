package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pool-league/internal/db"
	"pool-league/internal/models"
	"pool-league/internal/rating"
	"pool-league/internal/scoring"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// finalizeAttempts bounds retries of the finalization transaction against
// transient write conflicts before giving up.
const finalizeAttempts = 3

// FinalizationService applies a concluded match to player ratings and
// team aggregates and marks the match complete, all inside one
// transaction so a failure leaves every record untouched.
type FinalizationService struct {
	db   *db.MongoDB
	calc *rating.Calculator
}

func NewFinalizationService(database *db.MongoDB) *FinalizationService {
	return &FinalizationService{
		db:   database,
		calc: rating.NewCalculator(),
	}
}

// Finalize completes the match: recomputes the winner from current state,
// applies Elo changes and per-discipline stats to both players (and their
// teams, if any), and freezes the final score. Fails with ErrNotReady
// while no winner is determined, scoring.ErrMatchConcluded if the match
// was already finalized, and ErrReferenceNotFound if any touched record
// is missing. Transient transaction errors are retried a bounded number
// of times, then surfaced as ErrTransactionFailed.
func (s *FinalizationService) Finalize(ctx context.Context, matchID primitive.ObjectID) (*models.Match, error) {
	var lastErr error
	for attempt := 1; attempt <= finalizeAttempts; attempt++ {
		result, err := s.db.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return s.finalizeTxn(sc, matchID)
		})
		if err == nil {
			return result.(*models.Match), nil
		}
		if errors.Is(err, ErrNotReady) || errors.Is(err, ErrReferenceNotFound) || errors.Is(err, scoring.ErrMatchConcluded) {
			return nil, err
		}
		lastErr = err
		log.Printf("Finalize match %s: attempt %d/%d failed: %v", matchID.Hex(), attempt, finalizeAttempts, err)
	}
	return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, lastErr)
}

func (s *FinalizationService) finalizeTxn(sc mongo.SessionContext, matchID primitive.ObjectID) (*models.Match, error) {
	// Fresh snapshot of every touched record, read through the session so
	// the commit is validated against what we computed from.
	var m models.Match
	if err := s.db.Matches().FindOne(sc, bson.M{"_id": matchID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("match %s: %w", matchID.Hex(), ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to read match: %w", err)
	}
	if m.Status == models.MatchCompleted {
		return nil, scoring.ErrMatchConcluded
	}

	winnerID := scoring.MatchWinner(&m)
	if winnerID == nil {
		return nil, ErrNotReady
	}

	p1, err := s.readPlayer(sc, m.Player1ID)
	if err != nil {
		return nil, err
	}
	p2, err := s.readPlayer(sc, m.Player2ID)
	if err != nil {
		return nil, err
	}

	out := buildOutcome(&m, p1, p2, *winnerID, s.calc)

	if err := s.applyPlayer(sc, &m, p1, out.player1); err != nil {
		return nil, err
	}
	if err := s.applyPlayer(sc, &m, p2, out.player2); err != nil {
		return nil, err
	}
	if err := s.applyTeam(sc, &m, m.Team1ID, out.player1.won, m.Points1); err != nil {
		return nil, err
	}
	if err := s.applyTeam(sc, &m, m.Team2ID, out.player2.won, m.Points2); err != nil {
		return nil, err
	}

	now := time.Now()
	changes := models.RatingChanges{
		Player1Change:    out.player1.change,
		Player2Change:    out.player2.change,
		Player1NewRating: out.player1.newRating,
		Player2NewRating: out.player2.newRating,
	}
	res, err := s.db.Matches().UpdateOne(sc,
		bson.M{"_id": m.ID, "status": models.MatchInProgress},
		bson.M{"$set": bson.M{
			"status":        models.MatchCompleted,
			"score":         out.score,
			"ratingChanges": changes,
			"completedAt":   now,
			"updatedAt":     now,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete match: %w", err)
	}
	if res.MatchedCount == 0 {
		// Someone finalized it between our read and this write; the
		// transaction aborts so no stat is applied twice.
		return nil, scoring.ErrMatchConcluded
	}

	m.Status = models.MatchCompleted
	m.Score = out.score
	m.RatingChanges = &changes
	m.CompletedAt = &now
	m.UpdatedAt = now

	log.Printf("Match %s finalized: %s, ratings %d -> %d / %d -> %d",
		m.ID.Hex(), out.score,
		p1.Rating, out.player1.newRating,
		p2.Rating, out.player2.newRating)

	return &m, nil
}

func (s *FinalizationService) readPlayer(sc mongo.SessionContext, id primitive.ObjectID) (*models.Player, error) {
	var p models.Player
	if err := s.db.Players().FindOne(sc, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("player %s: %w", id.Hex(), ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to read player: %w", err)
	}
	return &p, nil
}

func (s *FinalizationService) applyPlayer(sc mongo.SessionContext, m *models.Match, p *models.Player, upd playerUpdate) error {
	fields := m.Discipline.Fields()
	inc := bson.M{fields.Matches: 1, fields.Points: upd.matchScore}
	if upd.won {
		inc[fields.Wins] = 1
	}

	_, err := s.db.Players().UpdateOne(sc,
		bson.M{"_id": p.ID},
		bson.M{
			"$set": bson.M{
				"previousRating": p.Rating,
				"rating":         upd.newRating,
				"updatedAt":      time.Now(),
			},
			"$inc": inc,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", p.ID.Hex(), err)
	}
	return nil
}

func (s *FinalizationService) applyTeam(sc mongo.SessionContext, m *models.Match, teamID *primitive.ObjectID, won bool, matchScore int) error {
	if teamID == nil {
		return nil
	}

	fields := models.TeamFields(m.Discipline)
	inc := bson.M{fields.Matches: 1, fields.Points: matchScore}
	if won {
		inc[fields.Wins] = 1
	}

	res, err := s.db.Teams().UpdateOne(sc,
		bson.M{"_id": *teamID},
		bson.M{
			"$inc": inc,
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update team %s: %w", teamID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("team %s: %w", teamID.Hex(), ErrReferenceNotFound)
	}
	return nil
}

// playerUpdate is the per-player piece of a finalization outcome.
type playerUpdate struct {
	won        bool
	newRating  int
	change     int
	matchScore int // this player's final in-match score
}

// matchOutcome is everything finalization writes, computed up front from
// fresh snapshots so the write phase is mechanical.
type matchOutcome struct {
	winnerID primitive.ObjectID
	player1  playerUpdate
	player2  playerUpdate
	score    string
}

// buildOutcome computes new ratings and tallies for both players. Pure:
// no storage access, no mutation of its inputs.
func buildOutcome(m *models.Match, p1, p2 *models.Player, winnerID primitive.ObjectID, calc *rating.Calculator) matchOutcome {
	p1Won := winnerID == p1.ID

	r1 := rating.Loss
	r2 := rating.Win
	if p1Won {
		r1 = rating.Win
		r2 = rating.Loss
	}

	new1 := calc.NewRating(p1.Rating, p2.Rating, r1)
	new2 := calc.NewRating(p2.Rating, p1.Rating, r2)

	return matchOutcome{
		winnerID: winnerID,
		player1: playerUpdate{
			won:        p1Won,
			newRating:  new1,
			change:     new1 - p1.Rating,
			matchScore: m.Points1,
		},
		player2: playerUpdate{
			won:        !p1Won,
			newRating:  new2,
			change:     new2 - p2.Rating,
			matchScore: m.Points2,
		},
		score: fmt.Sprintf("%d - %d", m.Points1, m.Points2),
	}
}
