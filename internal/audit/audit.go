package audit

import (
	"context"
	"log"
	"net/http"
	"time"

	"pool-league/internal/db"
	"pool-league/internal/middleware"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types for audit logging
const (
	EventLoginSuccess   = "login_success"
	EventLoginFailed    = "login_failed"
	EventMatchStarted   = "match_started"
	EventMatchFinalized = "match_finalized"
	EventMatchCancelled = "match_cancelled"
	EventRosterChange   = "roster_change"
)

// AuditEvent represents an admin action worth keeping a trail of.
type AuditEvent struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	EventType string              `bson:"eventType"`
	MatchID   *primitive.ObjectID `bson:"matchId,omitempty"`
	IP        string              `bson:"ip,omitempty"`
	UserAgent string              `bson:"userAgent,omitempty"`
	Details   string              `bson:"details,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
}

// LogEvent writes an audit event to the database (fire-and-forget).
func LogEvent(database *db.MongoDB, eventType string, matchID *primitive.ObjectID, r *http.Request, details string) {
	event := AuditEvent{
		EventType: eventType,
		MatchID:   matchID,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if r != nil {
		event.IP = middleware.GetClientIP(r)
		event.UserAgent = r.UserAgent()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := database.AuditLog().InsertOne(ctx, bson.M{
			"eventType": event.EventType,
			"matchId":   event.MatchID,
			"ip":        event.IP,
			"userAgent": event.UserAgent,
			"details":   event.Details,
			"createdAt": event.CreatedAt,
		}); err != nil {
			log.Printf("Audit log write failed: %v", err)
		}
	}()
}
