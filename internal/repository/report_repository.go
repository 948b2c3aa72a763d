package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pollution-service/internal/domain"
)

// ReportFilter captures listing parameters. OwnerID restricts results to a
// single account at the query level; personal listings always go through
// it rather than post-filtering a public result set.
type ReportFilter struct {
	OwnerID    *int64
	Category   *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Report, error)
	ListWithFilter(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (owner_id, title, place, observed_at, category, description, latitude, longitude, photo_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.OwnerID,
		report.Title,
		report.Place,
		report.ObservedAt,
		report.Category,
		report.Description,
		report.Latitude,
		report.Longitude,
		report.PhotoURL,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

// Update rewrites mutable fields. owner_id is deliberately absent from the
// SET list; ownership never changes after creation.
func (r *reportRepository) Update(ctx context.Context, report *domain.Report) error {
	const query = `
        UPDATE reports SET title=$1, place=$2, observed_at=$3, category=$4, description=$5,
            latitude=$6, longitude=$7, photo_url=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		report.Title,
		report.Place,
		report.ObservedAt,
		report.Category,
		report.Description,
		report.Latitude,
		report.Longitude,
		report.PhotoURL,
		report.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	const query = `
        SELECT id, owner_id, title, place, observed_at, category, description,
               latitude, longitude, photo_url, created_at, updated_at
        FROM reports WHERE id=$1`

	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.OwnerID,
		&report.Title,
		&report.Place,
		&report.ObservedAt,
		&report.Category,
		&report.Description,
		&report.Latitude,
		&report.Longitude,
		&report.PhotoURL,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) ListWithFilter(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	base := `SELECT id, owner_id, title, place, observed_at, category, description,
                    latitude, longitude, photo_url, created_at, updated_at
             FROM reports`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.Category != nil && strings.TrimSpace(*filter.Category) != "" {
		args = append(args, strings.TrimSpace(*filter.Category))
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.OwnerID,
			&report.Title,
			&report.Place,
			&report.ObservedAt,
			&report.Category,
			&report.Description,
			&report.Latitude,
			&report.Longitude,
			&report.PhotoURL,
			&report.CreatedAt,
			&report.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
