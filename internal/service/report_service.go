package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pollution-service/internal/auth"
	"github.com/spec-kit/pollution-service/internal/domain"
	"github.com/spec-kit/pollution-service/internal/events"
	"github.com/spec-kit/pollution-service/internal/repository"
	apperrors "github.com/spec-kit/pollution-service/pkg/util/errorutil"
)

// ReportService coordinates pollution report workflows. Every mutation on
// a specific report goes through the ownership guard; the owner id is
// always taken from the identity, never from client input.
type ReportService struct {
	reports    repository.ReportRepository
	dispatcher events.Dispatcher
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository, dispatcher events.Dispatcher) *ReportService {
	return &ReportService{reports: reports, dispatcher: dispatcher}
}

// ReportInput describes the mutable report fields.
type ReportInput struct {
	Title       string
	Place       string
	ObservedAt  *time.Time
	Category    string
	Description string
	Latitude    *float64
	Longitude   *float64
	PhotoURL    string
}

// ListFilter describes public listing parameters.
type ListFilter struct {
	Category   *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// Create stores a new report owned by the authenticated identity.
func (s *ReportService) Create(ctx context.Context, identity auth.Identity, input ReportInput) (*domain.Report, error) {
	report := &domain.Report{
		OwnerID:     identity.SubjectID,
		Title:       strings.TrimSpace(input.Title),
		Place:       strings.TrimSpace(input.Place),
		ObservedAt:  input.ObservedAt,
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		PhotoURL:    strings.TrimSpace(input.PhotoURL),
	}
	if report.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventReportCreated,
		ReportID: report.ID,
		Actor:    actorFromIdentity(identity),
		Payload: events.ReportCreatedPayload{
			Title:    report.Title,
			Category: report.Category,
			Place:    report.Place,
		},
	})
	return report, nil
}

// List returns the public report listing.
func (s *ReportService) List(ctx context.Context, filter ListFilter) ([]domain.Report, error) {
	return s.reports.ListWithFilter(ctx, repository.ReportFilter{
		Category:   filter.Category,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// ListMine returns reports owned by the identity, restricted at the query
// level.
func (s *ReportService) ListMine(ctx context.Context, identity auth.Identity, limit, offset int) ([]domain.Report, error) {
	ownerID := identity.SubjectID
	return s.reports.ListWithFilter(ctx, repository.ReportFilter{
		OwnerID: &ownerID,
		Limit:   limit,
		Offset:  offset,
	})
}

// Get fetches a single report. Reports are public for viewing.
func (s *ReportService) Get(ctx context.Context, id int64) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", nil)
		}
		return nil, err
	}
	return report, nil
}

// Update rewrites the mutable fields of an owned report. An absent report
// yields 404; an existing report owned by someone else yields a generic
// 403 regardless of which field mismatched.
func (s *ReportService) Update(ctx context.Context, identity auth.Identity, id int64, input ReportInput) (*domain.Report, error) {
	report, err := s.loadAuthorized(ctx, identity, id, auth.OpUpdate)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		report.Title = title
	}
	report.Place = strings.TrimSpace(input.Place)
	report.ObservedAt = input.ObservedAt
	report.Category = strings.TrimSpace(input.Category)
	report.Description = strings.TrimSpace(input.Description)
	report.Latitude = input.Latitude
	report.Longitude = input.Longitude
	report.PhotoURL = strings.TrimSpace(input.PhotoURL)

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventReportUpdated,
		ReportID: report.ID,
		Actor:    actorFromIdentity(identity),
		Payload:  events.ReportUpdatedPayload{Title: report.Title},
	})
	return report, nil
}

// Delete removes an owned report under the same guard policy as Update.
func (s *ReportService) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	report, err := s.loadAuthorized(ctx, identity, id, auth.OpDelete)
	if err != nil {
		return err
	}

	if err := s.reports.Delete(ctx, report.ID); err != nil {
		return err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventReportDeleted,
		ReportID: report.ID,
		Actor:    actorFromIdentity(identity),
		Payload:  events.ReportDeletedPayload{OwnerID: report.OwnerID},
	})
	return nil
}

// loadAuthorized settles existence before asking the guard, so a missing
// report is always 404 and a foreign one is always 403 with a message that
// reveals nothing about it.
func (s *ReportService) loadAuthorized(ctx context.Context, identity auth.Identity, id int64, op auth.Operation) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", nil)
		}
		return nil, err
	}
	if decision := auth.Authorize(identity, report.OwnerID, op); !decision.Allowed {
		return nil, apperrors.NewForbidden("access denied")
	}
	return report, nil
}

func actorFromIdentity(identity auth.Identity) events.Actor {
	return events.Actor{SubjectID: identity.SubjectID, Role: identity.Role}
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
