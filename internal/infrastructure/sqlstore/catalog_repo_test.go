package sqlstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msgstore/internal/application"
	"msgstore/internal/domain"
)

// testDB opens a migrated SQLite database in a temp dir.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(DialectSQLite, filepath.Join(t.TempDir(), "msgstore-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db, DialectSQLite))
	return db
}

func seedCatalog(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO catalog (name, source_lang, target_lang, author) VALUES (?, 'en', 'fr', 'tests')", name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestResolveCatalog(t *testing.T) {
	db := testDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	id := seedCatalog(t, db, "messages.en")

	got, err := repo.ResolveCatalog(ctx, "messages.en")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = repo.ResolveCatalog(ctx, "messages.fr")
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)

	// names are matched exactly, never as patterns
	_, err = repo.ResolveCatalog(ctx, "messages.%")
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)
}

func TestFindCatalog(t *testing.T) {
	db := testDB(t)
	repo := NewCatalogRepository(db)
	seedCatalog(t, db, "messages.fr")

	c, err := repo.FindCatalog(context.Background(), "messages.fr")
	require.NoError(t, err)
	assert.Equal(t, "en", c.SourceLang)
	assert.Equal(t, "fr", c.TargetLang)
	assert.Equal(t, "tests", c.Author)
	assert.True(t, c.ModifiedAt().IsZero())

	_, err = repo.FindCatalog(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)
}

func TestCatalogExistsAndModifiedAt(t *testing.T) {
	db := testDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	id := seedCatalog(t, db, "messages.en")

	ok, err := repo.CatalogExists(ctx, "messages.en")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CatalogExists(ctx, "messages.de")
	require.NoError(t, err)
	assert.False(t, ok)

	modified, err := repo.CatalogModifiedAt(ctx, "messages.en")
	require.NoError(t, err)
	assert.Zero(t, modified)

	require.NoError(t, repo.TouchCatalog(ctx, id, 1234))
	modified, err = repo.CatalogModifiedAt(ctx, "messages.en")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), modified)

	modified, err = repo.CatalogModifiedAt(ctx, "messages.de")
	require.NoError(t, err)
	assert.Zero(t, modified)
}

func TestListCatalogNames(t *testing.T) {
	db := testDB(t)
	repo := NewCatalogRepository(db)
	for _, name := range []string{"messages.fr", "admin", "messages.en"} {
		seedCatalog(t, db, name)
	}

	names, err := repo.ListCatalogNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "messages.en", "messages.fr"}, names)
}

func TestUnits_InsertLoadOrder(t *testing.T) {
	db := testDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	id := seedCatalog(t, db, "messages.en")
	other := seedCatalog(t, db, "messages.fr")

	require.NoError(t, repo.InsertUnit(ctx, id, 2, "second", 10))
	require.NoError(t, repo.InsertUnit(ctx, id, 1, "first", 10))
	require.NoError(t, repo.InsertUnit(ctx, other, 1, "elsewhere", 10))
	require.NoError(t, repo.InsertUnit(ctx, id, 3, "O'Reilly \"; DELETE FROM catalog; --", 10))

	count, err := repo.CountUnits(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	units, err := repo.LoadUnits(ctx, "messages.en")
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, "first", units[0].Source)
	assert.Equal(t, "second", units[1].Source)
	assert.Equal(t, "O'Reilly \"; DELETE FROM catalog; --", units[2].Source)
	assert.Equal(t, int64(10), units[0].DateAdded)
	assert.False(t, units[0].Translated)
	assert.Equal(t, "", units[0].Target)

	units, err = repo.LoadUnits(ctx, "missing.xx")
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestUpdateUnit_MatchedRows(t *testing.T) {
	db := testDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	id := seedCatalog(t, db, "messages.fr")
	require.NoError(t, repo.InsertUnit(ctx, id, 1, "Hello", 10))

	matched, err := repo.UpdateUnit(ctx, id, "Hello", "Bonjour", "greeting", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	// identical values still count as a matched row
	matched, err = repo.UpdateUnit(ctx, id, "Hello", "Bonjour", "greeting", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	matched, err = repo.UpdateUnit(ctx, id, "Missing", "x", "", 20)
	require.NoError(t, err)
	assert.Zero(t, matched)

	units, err := repo.LoadUnits(ctx, "messages.fr")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Bonjour", units[0].Target)
	assert.Equal(t, "greeting", units[0].Comments)
	assert.Equal(t, int64(20), units[0].DateModified)
	assert.True(t, units[0].Translated)
}

func TestDuplicateSourceIsRolledBack(t *testing.T) {
	db := testDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	id := seedCatalog(t, db, "messages.en")
	require.NoError(t, repo.InsertUnit(ctx, id, 1, "dup", 10))
	require.NoError(t, repo.InsertUnit(ctx, id, 2, "dup", 10))

	matched, err := repo.UpdateUnit(ctx, id, "dup", "changed", "", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), matched)

	matched, err = repo.DeleteUnit(ctx, id, "dup")
	require.NoError(t, err)
	assert.Equal(t, int64(2), matched)

	units, err := repo.LoadUnits(ctx, "messages.en")
	require.NoError(t, err)
	require.Len(t, units, 2)
	for _, u := range units {
		assert.Equal(t, "", u.Target)
	}
}

func TestDeleteUnit(t *testing.T) {
	db := testDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	id := seedCatalog(t, db, "messages.en")
	require.NoError(t, repo.InsertUnit(ctx, id, 1, "bye", 10))

	matched, err := repo.DeleteUnit(ctx, id, "bye")
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	count, err := repo.CountUnits(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMessageSource_OverSQLite(t *testing.T) {
	db := testDB(t)
	seedCatalog(t, db, "messages.en")
	src := application.NewMessageSource(NewCatalogRepository(db), nil)
	ctx := context.Background()

	ok, err := src.Save(ctx, []string{"Hello", "World"}, "messages", "en")
	require.NoError(t, err)
	assert.True(t, ok)

	info, err := src.CatalogInfo(ctx, "messages", "en")
	require.NoError(t, err)
	assert.NotZero(t, info.DateModified)

	ok, err = src.Update(ctx, "Hello", "Hi", "short", "messages", "en")
	require.NoError(t, err)
	assert.True(t, ok)

	table, err := src.LoadData(ctx, "messages.en")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	entry, found := table.First("Hello")
	require.True(t, found)
	assert.Equal(t, "Hi", entry.Target)
	assert.Equal(t, int64(1), entry.ID)

	ok, err = src.Delete(ctx, "Nope", "messages", "en")
	require.NoError(t, err)
	assert.False(t, ok)

	refs, err := src.Catalogues(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "messages", refs[0].Name)
	assert.Equal(t, "en", refs[0].Locale)
}

func TestMySQLDSNForcesClientFoundRows(t *testing.T) {
	dsn, err := mysqlDSN("user:pass@tcp(localhost:3306)/i18n")
	require.NoError(t, err)
	assert.Contains(t, dsn, "clientFoundRows=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open(Dialect("oracle"), "x")
	assert.Error(t, err)
}
