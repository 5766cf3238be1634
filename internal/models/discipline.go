package models

// Discipline identifies one of the two supported games. Each discipline
// keeps its own handicap chart and its own stat counters on player and
// team documents.
type Discipline string

const (
	EightBall Discipline = "eight-ball"
	NineBall  Discipline = "nine-ball"
)

// Valid reports whether d is a known discipline.
func (d Discipline) Valid() bool {
	switch d {
	case EightBall, NineBall:
		return true
	}
	return false
}

// StatFields names the document fields a discipline owns on player and
// team records. Updates always go through this mapping instead of
// assembling field names from strings at the call site.
type StatFields struct {
	Matches string
	Wins    string
	Points  string
}

var disciplineStatFields = map[Discipline]StatFields{
	EightBall: {Matches: "matches8Ball", Wins: "wins8Ball", Points: "points8Ball"},
	NineBall:  {Matches: "matches9Ball", Wins: "wins9Ball", Points: "points9Ball"},
}

// Fields returns the stat field names for the discipline.
func (d Discipline) Fields() StatFields {
	return disciplineStatFields[d]
}
