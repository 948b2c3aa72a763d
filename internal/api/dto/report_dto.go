package dto

import (
	"time"

	"github.com/spec-kit/pollution-service/internal/domain"
)

// ReportRequest payload for create and update. There is deliberately no
// owner field: ownership comes from the authenticated identity and any
// extra keys in the body are dropped by the parser.
type ReportRequest struct {
	Title       string     `json:"title"`
	Place       string     `json:"place"`
	ObservedAt  *time.Time `json:"observed_at"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	PhotoURL    string     `json:"photo_url"`
}

// ReportResponse response.
type ReportResponse struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Title       string     `json:"title"`
	Place       string     `json:"place,omitempty"`
	ObservedAt  *time.Time `json:"observed_at,omitempty"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ReportView maps a domain report onto its response shape.
func ReportView(report *domain.Report) ReportResponse {
	return ReportResponse{
		ID:          report.ID,
		OwnerID:     report.OwnerID,
		Title:       report.Title,
		Place:       report.Place,
		ObservedAt:  report.ObservedAt,
		Category:    report.Category,
		Description: report.Description,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		PhotoURL:    report.PhotoURL,
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}
}
