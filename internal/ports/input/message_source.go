package input

import (
	"context"

	"msgstore/internal/domain/entities"
)

// MessageSource is the caller-facing contract of the catalog store.
type MessageSource interface {
	IsValidSource(ctx context.Context, variant string) (bool, error)
	LoadData(ctx context.Context, variant string) (*entities.Table, error)
	Read(ctx context.Context, catalogue, locale string) (*entities.Table, error)
	Catalogues(ctx context.Context) ([]entities.CatalogueRef, error)
	CatalogInfo(ctx context.Context, catalogue, locale string) (*entities.Catalog, error)
	Save(ctx context.Context, messages []string, catalogue, locale string) (bool, error)
	Append(ctx context.Context, messages []string, catalogue, locale string) (int, error)
	Update(ctx context.Context, source, target, comments, catalogue, locale string) (bool, error)
	Delete(ctx context.Context, source, catalogue, locale string) (bool, error)
}
