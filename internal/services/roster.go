package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pool-league/internal/db"
	"pool-league/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RosterService moves players between teams. Team aggregates are adjusted
// additively: the player's accumulated per-discipline contributions are
// subtracted from the old team and added to the new one, never recomputed
// from match history.
type RosterService struct {
	db *db.MongoDB
}

func NewRosterService(database *db.MongoDB) *RosterService {
	return &RosterService{db: database}
}

// ChangeTeam assigns the player to newTeamID (nil makes them a free
// agent) and shifts their stat contributions between the affected teams
// inside one transaction.
func (s *RosterService) ChangeTeam(ctx context.Context, playerID primitive.ObjectID, newTeamID *primitive.ObjectID) (*models.Player, error) {
	result, err := s.db.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return s.changeTeamTxn(sc, playerID, newTeamID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Player), nil
}

func (s *RosterService) changeTeamTxn(sc mongo.SessionContext, playerID primitive.ObjectID, newTeamID *primitive.ObjectID) (*models.Player, error) {
	var player models.Player
	if err := s.db.Players().FindOne(sc, bson.M{"_id": playerID}).Decode(&player); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("player %s: %w", playerID.Hex(), ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to read player: %w", err)
	}

	oldTeamID := player.TeamID
	if sameTeam(oldTeamID, newTeamID) {
		return &player, nil
	}

	if oldTeamID != nil {
		if err := s.shiftContribution(sc, *oldTeamID, &player, -1); err != nil {
			return nil, err
		}
	}
	if newTeamID != nil {
		if err := s.shiftContribution(sc, *newTeamID, &player, +1); err != nil {
			return nil, err
		}
	}

	update := bson.M{"$set": bson.M{"updatedAt": time.Now()}}
	if newTeamID != nil {
		update["$set"].(bson.M)["teamId"] = *newTeamID
	} else {
		update["$unset"] = bson.M{"teamId": ""}
	}
	if _, err := s.db.Players().UpdateOne(sc, bson.M{"_id": playerID}, update); err != nil {
		return nil, fmt.Errorf("failed to update player team: %w", err)
	}

	player.TeamID = newTeamID
	return &player, nil
}

// shiftContribution adds sign * the player's accumulated counters to the
// team's aggregates for both disciplines.
func (s *RosterService) shiftContribution(sc mongo.SessionContext, teamID primitive.ObjectID, p *models.Player, sign int) error {
	inc := bson.M{}
	for _, d := range []models.Discipline{models.EightBall, models.NineBall} {
		stats := p.Stats(d)
		fields := models.TeamFields(d)
		inc[fields.Matches] = sign * stats.Matches
		inc[fields.Wins] = sign * stats.Wins
		inc[fields.Points] = sign * stats.Points
	}

	res, err := s.db.Teams().UpdateOne(sc,
		bson.M{"_id": teamID},
		bson.M{
			"$inc": inc,
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to adjust team %s: %w", teamID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("team %s: %w", teamID.Hex(), ErrReferenceNotFound)
	}
	return nil
}

func sameTeam(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
