package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Team struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name    string             `json:"name" bson:"name"`
	Captain string             `json:"captain" bson:"captain"`

	Points8Ball        int `json:"points8Ball" bson:"points8Ball"`
	MatchesPlayed8Ball int `json:"matchesPlayed8Ball" bson:"matchesPlayed8Ball"`
	Wins8Ball          int `json:"wins8Ball" bson:"wins8Ball"`
	Points9Ball        int `json:"points9Ball" bson:"points9Ball"`
	MatchesPlayed9Ball int `json:"matchesPlayed9Ball" bson:"matchesPlayed9Ball"`
	Wins9Ball          int `json:"wins9Ball" bson:"wins9Ball"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// teamStatFields maps a discipline to the team document fields it owns.
// Team documents use matchesPlayed* where player documents use matches*.
var teamStatFields = map[Discipline]StatFields{
	EightBall: {Matches: "matchesPlayed8Ball", Wins: "wins8Ball", Points: "points8Ball"},
	NineBall:  {Matches: "matchesPlayed9Ball", Wins: "wins9Ball", Points: "points9Ball"},
}

// TeamFields returns the team stat field names for the discipline.
func TeamFields(d Discipline) StatFields {
	return teamStatFields[d]
}

// Stats returns the team's aggregates for the given discipline.
func (t *Team) Stats(d Discipline) DisciplineStats {
	switch d {
	case NineBall:
		return DisciplineStats{Matches: t.MatchesPlayed9Ball, Wins: t.Wins9Ball, Points: t.Points9Ball}
	default:
		return DisciplineStats{Matches: t.MatchesPlayed8Ball, Wins: t.Wins8Ball, Points: t.Points8Ball}
	}
}
