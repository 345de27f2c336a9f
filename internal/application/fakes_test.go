package application

import (
	"context"
	"errors"
	"sort"
	"sync"

	"msgstore/internal/domain"
	"msgstore/internal/domain/entities"
	"msgstore/internal/ports/output"
)

var (
	_ output.CatalogRepository = (*memRepo)(nil)
	_ output.Cache             = (*memCache)(nil)
)

var errStorage = errors.New("storage unavailable")

// memRepo is an in-memory CatalogRepository used by the service tests.
type memRepo struct {
	mu       sync.Mutex
	catalogs []entities.Catalog
	units    []entities.TranslationUnit
	nextMsg  int64

	failInsert map[string]bool // source -> fail
	failAll    bool
	writes     int
	onLoad     func() // runs after LoadUnits releases the lock
}

func newMemRepo(names ...string) *memRepo {
	r := &memRepo{failInsert: map[string]bool{}}
	for i, name := range names {
		r.catalogs = append(r.catalogs, entities.Catalog{ID: int64(i + 1), Name: name})
	}
	return r
}

func (r *memRepo) catalogsNamed(name string) []entities.Catalog {
	var out []entities.Catalog
	for _, c := range r.catalogs {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (r *memRepo) ResolveCatalog(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return 0, errStorage
	}
	found := r.catalogsNamed(name)
	switch len(found) {
	case 0:
		return 0, domain.ErrCatalogNotFound
	case 1:
		return found[0].ID, nil
	default:
		return 0, domain.ErrCatalogAmbiguous
	}
}

func (r *memRepo) FindCatalog(_ context.Context, name string) (*entities.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := r.catalogsNamed(name)
	if len(found) != 1 {
		return nil, domain.ErrCatalogNotFound
	}
	c := found[0]
	return &c, nil
}

func (r *memRepo) CountUnits(_ context.Context, catalogID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.units {
		if u.CatalogID == catalogID {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CatalogModifiedAt(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := r.catalogsNamed(name)
	if len(found) == 0 {
		return 0, nil
	}
	return found[0].DateModified, nil
}

func (r *memRepo) CatalogExists(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return false, errStorage
	}
	return len(r.catalogsNamed(name)) == 1, nil
}

func (r *memRepo) ListCatalogNames(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *memRepo) LoadUnits(_ context.Context, variant string) ([]entities.TranslationUnit, error) {
	if r.onLoad != nil {
		defer r.onLoad()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := map[int64]bool{}
	for _, c := range r.catalogsNamed(variant) {
		ids[c.ID] = true
	}
	var out []entities.TranslationUnit
	for _, u := range r.units {
		if ids[u.CatalogID] {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].MsgID < out[j].MsgID
	})
	return out, nil
}

func (r *memRepo) InsertUnit(_ context.Context, catalogID, seq int64, source string, createdAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert[source] {
		return errStorage
	}
	r.nextMsg++
	r.writes++
	r.units = append(r.units, entities.TranslationUnit{
		MsgID:     r.nextMsg,
		CatalogID: catalogID,
		ID:        seq,
		Source:    source,
		DateAdded: createdAt,
	})
	return nil
}

func (r *memRepo) matching(catalogID int64, source string) []int {
	var idx []int
	for i, u := range r.units {
		if u.CatalogID == catalogID && u.Source == source {
			idx = append(idx, i)
		}
	}
	return idx
}

func (r *memRepo) DeleteUnit(_ context.Context, catalogID int64, source string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.matching(catalogID, source)
	if len(idx) == 1 {
		r.writes++
		r.units = append(r.units[:idx[0]], r.units[idx[0]+1:]...)
	}
	return int64(len(idx)), nil
}

func (r *memRepo) UpdateUnit(_ context.Context, catalogID int64, source, target, comments string, modifiedAt int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.matching(catalogID, source)
	if len(idx) == 1 {
		r.writes++
		u := &r.units[idx[0]]
		u.Target = target
		u.Comments = comments
		u.DateModified = modifiedAt
		u.Translated = target != ""
	}
	return int64(len(idx)), nil
}

func (r *memRepo) TouchCatalog(_ context.Context, catalogID int64, modifiedAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.catalogs {
		if r.catalogs[i].ID == catalogID {
			r.catalogs[i].DateModified = modifiedAt
		}
	}
	return nil
}

func (r *memRepo) modified(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalogsNamed(name)[0].DateModified
}

// memCache records removals and serves stored values.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	removed []string
	gets    int
	sets    int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.removed = append(c.removed, key)
	return nil
}
