package site

import "context"

type SiteRepository interface {
	// GetByID retrieves a site by ID
	GetByID(ctx context.Context, id string) (Site, error)

	// List returns every site, used to label summary rows
	List(ctx context.Context) ([]Site, error)
}
