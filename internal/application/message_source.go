package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"msgstore/internal/domain"
	"msgstore/internal/domain/entities"
	"msgstore/internal/ports/input"
	"msgstore/internal/ports/output"
)

var _ input.MessageSource = (*MessageSource)(nil)

// MessageSource is the database-backed message catalog exposed to callers.
type MessageSource struct {
	repo     output.CatalogRepository
	cache    output.Cache
	resolver *SourceResolver
	loader   *CatalogLoader
	mutation *MutationService
}

// NewMessageSource wires the resolver, loader and mutation service over repo.
// cache may be a nil interface, in which case Read always loads from storage.
// A typed nil pointer is not a nil interface and must not be passed.
func NewMessageSource(repo output.CatalogRepository, cache output.Cache) *MessageSource {
	resolver := NewSourceResolver(repo)
	return &MessageSource{
		repo:     repo,
		cache:    cache,
		resolver: resolver,
		loader:   NewCatalogLoader(repo),
		mutation: NewMutationService(repo, resolver, cache),
	}
}

func (m *MessageSource) IsValidSource(ctx context.Context, variant string) (bool, error) {
	return m.resolver.IsValidSource(ctx, variant)
}

func (m *MessageSource) LoadData(ctx context.Context, variant string) (*entities.Table, error) {
	return m.loader.Load(ctx, variant)
}

// cachedCatalog is the value stored in the cache for one variant.
type cachedCatalog struct {
	Modified int64           `json:"modified"`
	Table    *entities.Table `json:"table"`
}

// Read returns the table of catalogue.locale, served from the cache while the
// cached copy is at least as recent as the catalog's date_modified.
func (m *MessageSource) Read(ctx context.Context, catalogue, locale string) (*entities.Table, error) {
	variant := m.resolver.ResolveVariant(catalogue, locale)
	ok, err := m.resolver.IsValidSource(ctx, variant)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", variant, domain.ErrCatalogNotFound)
	}
	lastModified, err := m.repo.CatalogModifiedAt(ctx, variant)
	if err != nil {
		return nil, fmt.Errorf("catalog modified time: %w", err)
	}

	key := CacheKey(variant, locale)
	if m.cache != nil {
		if table, hit := m.fromCache(ctx, key, lastModified); hit {
			return table, nil
		}
	}

	table, err := m.loader.Load(ctx, variant)
	if err != nil {
		return nil, err
	}
	if m.cache != nil && m.cacheable(ctx, variant, lastModified) {
		data, err := json.Marshal(cachedCatalog{Modified: lastModified, Table: table})
		if err == nil {
			err = m.cache.Set(ctx, key, data)
		}
		if err != nil {
			log.Printf("cache: set %s failed: %v", key, err)
		}
	}
	return table, nil
}

// cacheable reports whether a table loaded under the lastModified stamp may be
// stored. date_modified has one-second resolution, so a catalog touched in the
// current second could change again without its stamp moving, and a stamp that
// moved during the load means the table may predate the latest write.
func (m *MessageSource) cacheable(ctx context.Context, variant string, lastModified int64) bool {
	if lastModified >= m.mutation.now().Unix() {
		return false
	}
	after, err := m.repo.CatalogModifiedAt(ctx, variant)
	if err != nil {
		log.Printf("cache: recheck %s failed: %v", variant, err)
		return false
	}
	return after == lastModified
}

func (m *MessageSource) fromCache(ctx context.Context, key string, lastModified int64) (*entities.Table, bool) {
	data, hit, err := m.cache.Get(ctx, key)
	if err != nil {
		log.Printf("cache: get %s failed: %v", key, err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var cached cachedCatalog
	if err := json.Unmarshal(data, &cached); err != nil || cached.Table == nil {
		return nil, false
	}
	if cached.Modified < lastModified {
		return nil, false
	}
	return cached.Table, true
}

// Catalogues lists every stored catalog split into base name and locale,
// ordered by stored name.
func (m *MessageSource) Catalogues(ctx context.Context) ([]entities.CatalogueRef, error) {
	names, err := m.repo.ListCatalogNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	out := make([]entities.CatalogueRef, len(names))
	for i, name := range names {
		out[i] = SplitVariant(name)
	}
	return out, nil
}

// SplitVariant splits a stored name at its last separator.
func SplitVariant(name string) entities.CatalogueRef {
	i := strings.LastIndex(name, domain.VariantSeparator)
	if i < 0 {
		return entities.CatalogueRef{Name: name}
	}
	return entities.CatalogueRef{Name: name[:i], Locale: name[i+len(domain.VariantSeparator):]}
}

func (m *MessageSource) CatalogInfo(ctx context.Context, catalogue, locale string) (*entities.Catalog, error) {
	return m.repo.FindCatalog(ctx, m.resolver.ResolveVariant(catalogue, locale))
}

func (m *MessageSource) Save(ctx context.Context, messages []string, catalogue, locale string) (bool, error) {
	return m.mutation.Save(ctx, messages, catalogue, locale)
}

func (m *MessageSource) Append(ctx context.Context, messages []string, catalogue, locale string) (int, error) {
	return m.mutation.Append(ctx, messages, catalogue, locale)
}

func (m *MessageSource) Update(ctx context.Context, source, target, comments, catalogue, locale string) (bool, error) {
	return m.mutation.Update(ctx, source, target, comments, catalogue, locale)
}

func (m *MessageSource) Delete(ctx context.Context, source, catalogue, locale string) (bool, error) {
	return m.mutation.Delete(ctx, source, catalogue, locale)
}
