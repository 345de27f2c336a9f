package application

import (
	"context"
	"fmt"
	"strings"

	"msgstore/internal/domain"
	"msgstore/internal/domain/entities"
	"msgstore/internal/ports/output"
)

// SourceResolver maps a catalog base name and locale to a stored catalog.
type SourceResolver struct {
	repo output.CatalogRepository
}

func NewSourceResolver(repo output.CatalogRepository) *SourceResolver {
	return &SourceResolver{repo: repo}
}

// ResolveVariant builds the stored catalog name "<catalogue>.<locale>".
// An empty catalogue defaults to "messages".
func ResolveVariant(catalogue, locale string) string {
	if strings.TrimSpace(catalogue) == "" {
		catalogue = domain.DefaultCatalogue
	}
	return catalogue + domain.VariantSeparator + locale
}

func (r *SourceResolver) ResolveVariant(catalogue, locale string) string {
	return ResolveVariant(catalogue, locale)
}

func (r *SourceResolver) IsValidSource(ctx context.Context, variant string) (bool, error) {
	ok, err := r.repo.CatalogExists(ctx, variant)
	if err != nil {
		return false, fmt.Errorf("check catalog %q: %w", variant, err)
	}
	return ok, nil
}

// CatalogueDetails resolves the catalog id of a variant and counts its units.
// A missing or ambiguous name is returned as the matching domain error.
func (r *SourceResolver) CatalogueDetails(ctx context.Context, catalogue, locale string) (*entities.CatalogueDetails, error) {
	variant := r.ResolveVariant(catalogue, locale)
	id, err := r.repo.ResolveCatalog(ctx, variant)
	if err != nil {
		return nil, err
	}
	count, err := r.repo.CountUnits(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count units: %w", err)
	}
	return &entities.CatalogueDetails{
		CatalogID: id,
		Variant:   variant,
		UnitCount: count,
	}, nil
}

// CacheKey is the key a cached copy of the variant is stored under.
func CacheKey(variant, locale string) string {
	return variant + ":" + locale
}
