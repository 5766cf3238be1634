package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlayerStatus string

const (
	PlayerActive   PlayerStatus = "active"
	PlayerInactive PlayerStatus = "inactive"
)

type Player struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name           string              `json:"name" bson:"name"`
	TeamID         *primitive.ObjectID `json:"teamId,omitempty" bson:"teamId,omitempty"` // nullable for free agents
	Status         PlayerStatus        `json:"status" bson:"status"`
	Rating         int                 `json:"rating" bson:"rating"`
	PreviousRating int                 `json:"previousRating" bson:"previousRating"` // rating before the last completed match

	Matches8Ball int `json:"matches8Ball" bson:"matches8Ball"`
	Wins8Ball    int `json:"wins8Ball" bson:"wins8Ball"`
	Points8Ball  int `json:"points8Ball" bson:"points8Ball"`
	Matches9Ball int `json:"matches9Ball" bson:"matches9Ball"`
	Wins9Ball    int `json:"wins9Ball" bson:"wins9Ball"`
	Points9Ball  int `json:"points9Ball" bson:"points9Ball"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DisciplineStats is a read-side view of one discipline's counters.
type DisciplineStats struct {
	Matches int `json:"matches"`
	Wins    int `json:"wins"`
	Points  int `json:"points"`
}

// Stats returns the player's counters for the given discipline.
func (p *Player) Stats(d Discipline) DisciplineStats {
	switch d {
	case NineBall:
		return DisciplineStats{Matches: p.Matches9Ball, Wins: p.Wins9Ball, Points: p.Points9Ball}
	default:
		return DisciplineStats{Matches: p.Matches8Ball, Wins: p.Wins8Ball, Points: p.Points8Ball}
	}
}

// Default values
const DefaultRating = 500
