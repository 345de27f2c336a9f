package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"msgstore/internal/domain"
	"msgstore/internal/domain/entities"
	"msgstore/internal/ports/output"
)

// MutationService appends, updates and deletes translation units, then touches
// the catalog time and invalidates the cached copy of the catalog.
type MutationService struct {
	repo     output.CatalogRepository
	resolver *SourceResolver
	cache    output.CacheInvalidator
	now      func() time.Time
}

// NewMutationService creates a MutationService. cache may be nil.
func NewMutationService(
	repo output.CatalogRepository,
	resolver *SourceResolver,
	cache output.CacheInvalidator,
) *MutationService {
	return &MutationService{
		repo:     repo,
		resolver: resolver,
		cache:    cache,
		now:      time.Now,
	}
}

// Append inserts each message as a new untranslated unit and returns how many
// were stored. A failed insert is logged and skipped.
func (s *MutationService) Append(ctx context.Context, messages []string, catalogue, locale string) (int, error) {
	if len(messages) == 0 {
		return 0, domain.ErrNoMessages
	}
	details, err := s.resolver.CatalogueDetails(ctx, catalogue, locale)
	if err != nil {
		return 0, err
	}
	if details.CatalogID <= 0 {
		return 0, domain.ErrCatalogNotFound
	}

	now := s.now().Unix()
	seq := details.UnitCount
	inserted := 0
	var errs []error
	for _, message := range messages {
		seq++
		if err := s.repo.InsertUnit(ctx, details.CatalogID, seq, message, now); err != nil {
			log.Printf("catalog %s: insert unit %d failed: %v", details.Variant, seq, err)
			errs = append(errs, err)
			continue
		}
		inserted++
	}
	if inserted == 0 {
		return 0, fmt.Errorf("insert units: %w", errors.Join(errs...))
	}
	if err := s.touch(ctx, details, locale); err != nil {
		return inserted, err
	}
	return inserted, nil
}

// Save reports whether at least one message was stored. Unknown catalogs and
// empty input report false without error.
func (s *MutationService) Save(ctx context.Context, messages []string, catalogue, locale string) (bool, error) {
	inserted, err := s.Append(ctx, messages, catalogue, locale)
	if isDomainFault(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return inserted > 0, nil
}

// Update sets the target and comments of the unit whose source text matches.
// It succeeds only when exactly one unit matched.
func (s *MutationService) Update(ctx context.Context, source, target, comments, catalogue, locale string) (bool, error) {
	details, err := s.resolver.CatalogueDetails(ctx, catalogue, locale)
	if isDomainFault(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	matched, err := s.repo.UpdateUnit(ctx, details.CatalogID, source, target, comments, s.now().Unix())
	if err != nil {
		return false, fmt.Errorf("update unit: %w", err)
	}
	if matched != 1 {
		return false, nil
	}
	if err := s.touch(ctx, details, locale); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the unit whose source text matches. It succeeds only when
// exactly one unit matched.
func (s *MutationService) Delete(ctx context.Context, source, catalogue, locale string) (bool, error) {
	details, err := s.resolver.CatalogueDetails(ctx, catalogue, locale)
	if isDomainFault(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	matched, err := s.repo.DeleteUnit(ctx, details.CatalogID, source)
	if err != nil {
		return false, fmt.Errorf("delete unit: %w", err)
	}
	if matched != 1 {
		return false, nil
	}
	if err := s.touch(ctx, details, locale); err != nil {
		return false, err
	}
	return true, nil
}

// touch records the modification time and then drops the cached copy.
// A failed invalidation is logged only: the newer date_modified makes any
// cached copy stale for readers.
func (s *MutationService) touch(ctx context.Context, details *entities.CatalogueDetails, locale string) error {
	if err := s.repo.TouchCatalog(ctx, details.CatalogID, s.now().Unix()); err != nil {
		return fmt.Errorf("touch catalog %s: %w", details.Variant, err)
	}
	if s.cache == nil {
		return nil
	}
	key := CacheKey(details.Variant, locale)
	if err := s.cache.Remove(ctx, key); err != nil {
		log.Printf("cache: remove %s failed: %v", key, err)
	}
	return nil
}

func isDomainFault(err error) bool {
	return errors.Is(err, domain.ErrCatalogNotFound) ||
		errors.Is(err, domain.ErrCatalogAmbiguous) ||
		errors.Is(err, domain.ErrNoMessages)
}
