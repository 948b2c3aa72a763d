package events

import (
	"time"

	"github.com/spec-kit/pollution-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventReportCreated  EventType = "report_created"
	EventReportUpdated  EventType = "report_updated"
	EventReportDeleted  EventType = "report_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	SubjectID int64       `json:"subject_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  int64       `json:"report_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Place    string `json:"place,omitempty"`
}

// ReportUpdatedPayload payload.
type ReportUpdatedPayload struct {
	Title string `json:"title"`
}

// ReportDeletedPayload payload.
type ReportDeletedPayload struct {
	OwnerID int64 `json:"owner_id"`
}
