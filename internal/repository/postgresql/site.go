package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/domain/site"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type siteRepository struct {
	db *database.DB
}

// GetByID implements site.SiteRepository.
func (r *siteRepository) GetByID(ctx context.Context, id string) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, radius_m, status, created_at, updated_at
		FROM sites
		WHERE id = $1
	`

	var s site.Site
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.RadiusM, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site by ID: %w", err)
	}

	return s, nil
}

// List implements site.SiteRepository.
func (r *siteRepository) List(ctx context.Context) ([]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, radius_m, status, created_at, updated_at
		FROM sites
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []site.Site
	for rows.Next() {
		var s site.Site
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.RadiusM, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}

	return sites, rows.Err()
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepository{
		db: db,
	}
}
