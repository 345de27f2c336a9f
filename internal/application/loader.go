package application

import (
	"context"
	"fmt"

	"msgstore/internal/domain/entities"
	"msgstore/internal/ports/output"
)

// CatalogLoader builds the in-memory table of a variant.
type CatalogLoader struct {
	repo output.CatalogRepository
}

func NewCatalogLoader(repo output.CatalogRepository) *CatalogLoader {
	return &CatalogLoader{repo: repo}
}

// Load returns every unit of the variant ordered by unit id. An unknown variant
// yields an empty table, same as an empty one.
func (l *CatalogLoader) Load(ctx context.Context, variant string) (*entities.Table, error) {
	units, err := l.repo.LoadUnits(ctx, variant)
	if err != nil {
		return nil, fmt.Errorf("load units of %q: %w", variant, err)
	}
	table := entities.NewTable()
	for i := range units {
		table.Add(entities.TableEntry{
			Source:   units[i].Source,
			Target:   units[i].Target,
			ID:       units[i].ID,
			Comments: units[i].Comments,
		})
	}
	return table, nil
}
