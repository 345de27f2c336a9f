package output

import (
	"context"

	"msgstore/internal/domain/entities"
)

// CatalogRepository is the persistence contract of the catalog store.
// Every text argument is bound as a query parameter by implementations.
type CatalogRepository interface {
	// ResolveCatalog returns the id of the catalog with the exact name, or
	// domain.ErrCatalogNotFound / domain.ErrCatalogAmbiguous.
	ResolveCatalog(ctx context.Context, name string) (int64, error)
	FindCatalog(ctx context.Context, name string) (*entities.Catalog, error)
	CountUnits(ctx context.Context, catalogID int64) (int64, error)
	// CatalogModifiedAt returns 0 when the catalog does not exist.
	CatalogModifiedAt(ctx context.Context, name string) (int64, error)
	CatalogExists(ctx context.Context, name string) (bool, error)
	ListCatalogNames(ctx context.Context) ([]string, error)
	LoadUnits(ctx context.Context, variant string) ([]entities.TranslationUnit, error)
	InsertUnit(ctx context.Context, catalogID, seq int64, source string, createdAt int64) error
	// DeleteUnit and UpdateUnit return the number of matched rows; the change is
	// only kept when exactly one row matched.
	DeleteUnit(ctx context.Context, catalogID int64, source string) (int64, error)
	UpdateUnit(ctx context.Context, catalogID int64, source, target, comments string, modifiedAt int64) (int64, error)
	TouchCatalog(ctx context.Context, catalogID int64, modifiedAt int64) error
}
