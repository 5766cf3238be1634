package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pool-league/internal/audit"
	"pool-league/internal/db"
	"pool-league/internal/handicap"
	"pool-league/internal/models"
	"pool-league/internal/scoring"
	"pool-league/internal/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MatchHandler struct {
	db        *db.MongoDB
	resolver  *handicap.Resolver
	finalizer *services.FinalizationService
	ws        *WebSocketHandler
}

func NewMatchHandler(database *db.MongoDB, resolver *handicap.Resolver, finalizer *services.FinalizationService, wsHandler *WebSocketHandler) *MatchHandler {
	return &MatchHandler{
		db:        database,
		resolver:  resolver,
		finalizer: finalizer,
		ws:        wsHandler,
	}
}

type CreateMatchRequest struct {
	Player1ID    string `json:"player1Id"`
	Player2ID    string `json:"player2Id"`
	GameType     string `json:"gameType"`
	TournamentID string `json:"tournamentId,omitempty"`
	Table        string `json:"table,omitempty"`
}

type RecordGameRequest struct {
	WinnerID   string `json:"winnerId"`
	LoserScore int    `json:"loserScore"`
}

type PocketBallRequest struct {
	PlayerID string `json:"playerId"`
	Ball     int    `json:"ball"`
}

type DeadBallRequest struct {
	Ball int `json:"ball"`
}

// MatchView is the per-event response: the match plus the derived live
// state the scoreboard needs.
type MatchView struct {
	Match     *models.Match       `json:"match"`
	OnTheHill bool                `json:"onTheHill"`
	WinnerID  *primitive.ObjectID `json:"winnerId,omitempty"`
}

func newMatchView(m *models.Match) MatchView {
	return MatchView{
		Match:     m,
		OnTheHill: scoring.OnTheHill(m),
		WinnerID:  scoring.MatchWinner(m),
	}
}

// CreateMatch sets up a live match: loads both players, resolves their
// handicap targets from the race chart, and creates an in-progress match.
// POST /api/matches
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	discipline := models.Discipline(req.GameType)
	if !discipline.Valid() {
		respondWithError(w, http.StatusBadRequest, "Unknown game type")
		return
	}

	p1ID, err := primitive.ObjectIDFromHex(req.Player1ID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid player1Id")
		return
	}
	p2ID, err := primitive.ObjectIDFromHex(req.Player2ID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid player2Id")
		return
	}
	if p1ID == p2ID {
		respondWithError(w, http.StatusBadRequest, "A player cannot play themselves")
		return
	}

	p1, err := h.findPlayer(ctx, p1ID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Player 1 not found")
		return
	}
	p2, err := h.findPlayer(ctx, p2ID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Player 2 not found")
		return
	}

	target1, target2, err := h.resolver.Resolve(discipline, p1.Rating, p2.Rating)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Handicap chart unavailable")
		return
	}

	now := time.Now()
	match := &models.Match{
		Player1ID:    p1.ID,
		Player2ID:    p2.ID,
		Player1Name:  p1.Name,
		Player2Name:  p2.Name,
		Team1ID:      p1.TeamID,
		Team2ID:      p2.TeamID,
		Discipline:   discipline,
		PointsToWin1: target1,
		PointsToWin2: target2,
		Games:        []models.GameLog{},
		Table:        req.Table,
		Status:       models.MatchInProgress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.TournamentID != "" {
		tID, err := primitive.ObjectIDFromHex(req.TournamentID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid tournamentId")
			return
		}
		var t models.Tournament
		if err := h.db.Tournaments().FindOne(ctx, bson.M{"_id": tID}).Decode(&t); err != nil {
			respondWithError(w, http.StatusNotFound, "Tournament not found")
			return
		}
		match.TournamentID = &t.ID
		match.TournamentName = t.Name
	}

	res, err := h.db.Matches().InsertOne(ctx, match)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create match")
		return
	}
	match.ID = res.InsertedID.(primitive.ObjectID)

	audit.LogEvent(h.db, audit.EventMatchStarted, &match.ID, r,
		match.Player1Name+" vs "+match.Player2Name+" ("+string(discipline)+")")

	respondWithJSON(w, http.StatusCreated, newMatchView(match))
}

// GetMatch returns one match with its derived live state.
// GET /api/matches/{id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, ok := h.loadMatch(ctx, w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, newMatchView(m))
}

// ListMatches returns matches, optionally filtered by game type and
// status, most recent first.
// GET /api/matches?gameType=eight-ball&status=completed
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if gt := r.URL.Query().Get("gameType"); gt != "" {
		if !models.Discipline(gt).Valid() {
			respondWithError(w, http.StatusBadRequest, "Unknown game type")
			return
		}
		filter["gameType"] = gt
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"updatedAt": -1}).SetLimit(100)
	cursor, err := h.db.Matches().Find(ctx, filter, opts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch matches")
		return
	}
	defer cursor.Close(ctx)

	matches := []models.Match{}
	if err := cursor.All(ctx, &matches); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to decode matches")
		return
	}

	respondWithJSON(w, http.StatusOK, matches)
}

// RecordGame logs the end of one eight-ball game and persists the
// updated score.
// POST /api/matches/{id}/games
func (h *MatchHandler) RecordGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, ok := h.loadMatch(ctx, w, r)
	if !ok {
		return
	}

	var req RecordGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	winnerID, err := primitive.ObjectIDFromHex(req.WinnerID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid winnerId")
		return
	}

	if m.Status != models.MatchInProgress {
		respondScoringError(w, scoring.ErrMatchConcluded)
		return
	}

	gameLog, err := scoring.RecordEightBallGame(m, winnerID, req.LoserScore)
	if err != nil {
		respondScoringError(w, err)
		return
	}

	update := bson.M{
		"$set": bson.M{
			"points1":   m.Points1,
			"points2":   m.Points2,
			"updatedAt": time.Now(),
		},
		"$push": bson.M{"games": gameLog},
	}
	if !h.persistMatch(ctx, w, m.ID, update) {
		return
	}

	h.broadcast(m)
	respondWithJSON(w, http.StatusOK, newMatchView(m))
}

// PocketBall assigns a ball in the current nine-ball rack. Pocketing the
// 9 ends the game and scores it.
// POST /api/matches/{id}/balls/pocket
func (h *MatchHandler) PocketBall(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, ok := h.loadMatch(ctx, w, r)
	if !ok {
		return
	}

	var req PocketBallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	playerID, err := primitive.ObjectIDFromHex(req.PlayerID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid playerId")
		return
	}

	if m.Status != models.MatchInProgress {
		respondScoringError(w, scoring.ErrMatchConcluded)
		return
	}

	gameLog, err := scoring.PocketBall(m, playerID, req.Ball)
	if err != nil {
		respondScoringError(w, err)
		return
	}

	set := bson.M{
		"rack":      m.Rack,
		"updatedAt": time.Now(),
	}
	update := bson.M{"$set": set}
	if gameLog != nil {
		set["points1"] = m.Points1
		set["points2"] = m.Points2
		update["$push"] = bson.M{"games": gameLog}
	}
	if !h.persistMatch(ctx, w, m.ID, update) {
		return
	}

	h.broadcast(m)
	respondWithJSON(w, http.StatusOK, newMatchView(m))
}

// MarkBallDead removes a ball from the current rack with no credit.
// POST /api/matches/{id}/balls/dead
func (h *MatchHandler) MarkBallDead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, ok := h.loadMatch(ctx, w, r)
	if !ok {
		return
	}

	var req DeadBallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if m.Status != models.MatchInProgress {
		respondScoringError(w, scoring.ErrMatchConcluded)
		return
	}

	if err := scoring.MarkBallDead(m, req.Ball); err != nil {
		respondScoringError(w, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"rack":      m.Rack,
		"updatedAt": time.Now(),
	}}
	if !h.persistMatch(ctx, w, m.ID, update) {
		return
	}

	h.broadcast(m)
	respondWithJSON(w, http.StatusOK, newMatchView(m))
}

// FinalizeMatch applies ratings and team stats and completes the match.
// POST /api/matches/{id}/finalize
func (h *MatchHandler) FinalizeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	matchID, ok := matchIDFromRequest(w, r)
	if !ok {
		return
	}

	m, err := h.finalizer.Finalize(ctx, matchID)
	if err != nil {
		respondScoringError(w, err)
		return
	}

	audit.LogEvent(h.db, audit.EventMatchFinalized, &m.ID, r, "final score "+m.Score)
	h.broadcast(m)
	respondWithJSON(w, http.StatusOK, newMatchView(m))
}

// CancelMatch discards an in-progress match without touching any player
// or team record.
// DELETE /api/matches/{id}
func (h *MatchHandler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	matchID, ok := matchIDFromRequest(w, r)
	if !ok {
		return
	}

	res, err := h.db.Matches().DeleteOne(ctx, bson.M{
		"_id":    matchID,
		"status": models.MatchInProgress,
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to cancel match")
		return
	}
	if res.DeletedCount == 0 {
		// Either it never existed or it is already completed; completed
		// matches cannot be discarded.
		var m models.Match
		if lookupErr := h.db.Matches().FindOne(ctx, bson.M{"_id": matchID}).Decode(&m); lookupErr == nil {
			respondScoringError(w, scoring.ErrMatchConcluded)
			return
		}
		respondWithError(w, http.StatusNotFound, "Match not found")
		return
	}

	audit.LogEvent(h.db, audit.EventMatchCancelled, &matchID, r, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) findPlayer(ctx context.Context, id primitive.ObjectID) (*models.Player, error) {
	var p models.Player
	if err := h.db.Players().FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// loadMatch parses {id} and fetches the match, writing the error response
// itself on failure.
func (h *MatchHandler) loadMatch(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Match, bool) {
	matchID, ok := matchIDFromRequest(w, r)
	if !ok {
		return nil, false
	}

	var m models.Match
	if err := h.db.Matches().FindOne(ctx, bson.M{"_id": matchID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(w, http.StatusNotFound, "Match not found")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch match")
		}
		return nil, false
	}
	return &m, true
}

func (h *MatchHandler) persistMatch(ctx context.Context, w http.ResponseWriter, matchID primitive.ObjectID, update bson.M) bool {
	if _, err := h.db.Matches().UpdateOne(ctx, bson.M{"_id": matchID}, update); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save match")
		return false
	}
	return true
}

func (h *MatchHandler) broadcast(m *models.Match) {
	if h.ws != nil {
		h.ws.BroadcastMatchUpdate(m.ID.Hex(), m, "")
	}
}

func matchIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(r)
	matchID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid match id")
		return primitive.NilObjectID, false
	}
	return matchID, true
}

// respondScoringError maps engine errors onto HTTP statuses.
func respondScoringError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoring.ErrInvalidScore), errors.Is(err, scoring.ErrInvalidOperation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scoring.ErrMatchConcluded), errors.Is(err, services.ErrNotReady):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrReferenceNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrTransactionFailed):
		respondWithError(w, http.StatusServiceUnavailable, "Finalization failed, please retry")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal error")
	}
}
