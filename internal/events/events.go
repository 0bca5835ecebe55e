package events

import (
	"context"
	"time"
)

// Event is the envelope published to the message broker.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Event types emitted by the invite lifecycle.
const (
	EventInviteCreated  = "invite.created"
	EventInviteAccepted = "invite.accepted"
	EventInviteRejected = "invite.rejected"
	EventInviteExpired  = "invite.expired"

	// EventMatchConfirmed hands the pairing off to downstream services
	// (scheduling, messaging) once the invite reaches confirmed.
	EventMatchConfirmed = "match.confirmed"
)

// EventSource identifies this service in the envelope.
const EventSource = "matching-service"

// EventVersion is the envelope schema version.
const EventVersion = "1.0"

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
	Close() error
}

// InviteEvent is the payload for invite lifecycle events.
type InviteEvent struct {
	InviteID  string `json:"invite_id"`
	StudentID string `json:"student_id"`
	MentorID  string `json:"mentor_id"`
	Status    string `json:"status"`
	Actor     string `json:"actor,omitempty"`
	Score     int    `json:"score"`
}

// MatchConfirmedEvent is the payload handed to downstream services when a
// match is confirmed.
type MatchConfirmedEvent struct {
	InviteID     string   `json:"invite_id"`
	StudentID    string   `json:"student_id"`
	MentorID     string   `json:"mentor_id"`
	Score        int      `json:"score"`
	Reasons      []string `json:"reasons"`
	StudentEmail string   `json:"student_email,omitempty"`
	MentorEmail  string   `json:"mentor_email,omitempty"`
}
