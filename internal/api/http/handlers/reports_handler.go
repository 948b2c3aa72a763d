package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pollution-service/internal/api/dto"
	"github.com/spec-kit/pollution-service/internal/auth"
	"github.com/spec-kit/pollution-service/internal/domain"
	"github.com/spec-kit/pollution-service/internal/service"
	apperrors "github.com/spec-kit/pollution-service/pkg/util/errorutil"
)

// ReportsHandler manages pollution report endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// List GET /api/reports. Public.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	filter := service.ListFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if term := c.Query("q"); term != "" {
		filter.SearchTerm = &term
	}

	reports, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportViews(reports)})
}

// ListMine GET /api/reports/mine.
func (h *ReportsHandler) ListMine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reports, err := h.service.ListMine(c.Context(), *identity, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportViews(reports)})
}

// Get GET /api/reports/:id. Public.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	report, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReportView(report)})
}

// Create POST /api/reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	report, err := h.service.Create(c.Context(), *identity, reportInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ReportView(report)})
}

// Update PUT /api/reports/:id.
func (h *ReportsHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	report, err := h.service.Update(c.Context(), *identity, id, reportInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReportView(report)})
}

// Delete DELETE /api/reports/:id.
func (h *ReportsHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), *identity, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func reportInput(req dto.ReportRequest) service.ReportInput {
	return service.ReportInput{
		Title:       req.Title,
		Place:       req.Place,
		ObservedAt:  req.ObservedAt,
		Category:    req.Category,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PhotoURL:    req.PhotoURL,
	}
}

func reportViews(reports []domain.Report) []dto.ReportResponse {
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, dto.ReportView(&reports[i]))
	}
	return items
}
