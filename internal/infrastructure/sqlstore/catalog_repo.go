package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"msgstore/internal/domain"
	"msgstore/internal/domain/entities"
	"msgstore/internal/ports/output"
)

var _ output.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository implements output.CatalogRepository on database/sql.
// The same statements serve SQLite and MySQL: both take ? placeholders.
type CatalogRepository struct {
	DB *sql.DB
	SQ sq.StatementBuilderType
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{DB: db, SQ: sq.StatementBuilder}
}

func (r *CatalogRepository) ResolveCatalog(ctx context.Context, name string) (int64, error) {
	sqlStr, args, err := r.SQ.Select("cat_id").From("catalog").
		Where(sq.Eq{"name": name}).Limit(2).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build resolve catalog: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("resolve catalog: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("resolve catalog: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("resolve catalog: %w", err)
	}
	switch len(ids) {
	case 0:
		return 0, fmt.Errorf("%s: %w", name, domain.ErrCatalogNotFound)
	case 1:
		return ids[0], nil
	default:
		return 0, fmt.Errorf("%s: %w", name, domain.ErrCatalogAmbiguous)
	}
}

func (r *CatalogRepository) FindCatalog(ctx context.Context, name string) (*entities.Catalog, error) {
	sqlStr, args, err := r.SQ.
		Select("cat_id", "name", "source_lang", "target_lang", "author", "date_created", "date_modified").
		From("catalog").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find catalog: %w", err)
	}
	var c entities.Catalog
	err = r.DB.QueryRowContext(ctx, sqlStr, args...).
		Scan(&c.ID, &c.Name, &c.SourceLang, &c.TargetLang, &c.Author, &c.DateCreated, &c.DateModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrCatalogNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find catalog: %w", err)
	}
	return &c, nil
}

func (r *CatalogRepository) CountUnits(ctx context.Context, catalogID int64) (int64, error) {
	sqlStr, args, err := r.SQ.Select("COUNT(*)").From("translation_unit").
		Where(sq.Eq{"cat_id": catalogID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count units: %w", err)
	}
	var count int64
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count units: %w", err)
	}
	return count, nil
}

func (r *CatalogRepository) CatalogModifiedAt(ctx context.Context, name string) (int64, error) {
	sqlStr, args, err := r.SQ.Select("date_modified").From("catalog").
		Where(sq.Eq{"name": name}).Limit(1).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build catalog modified: %w", err)
	}
	var modified int64
	err = r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&modified)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("catalog modified: %w", err)
	}
	return modified, nil
}

func (r *CatalogRepository) CatalogExists(ctx context.Context, name string) (bool, error) {
	sqlStr, args, err := r.SQ.Select("COUNT(*)").From("catalog").
		Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build catalog exists: %w", err)
	}
	var count int64
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("catalog exists: %w", err)
	}
	return count == 1, nil
}

func (r *CatalogRepository) ListCatalogNames(ctx context.Context) ([]string, error) {
	sqlStr, args, err := r.SQ.Select("name").From("catalog").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list catalogs: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list catalogs: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *CatalogRepository) LoadUnits(ctx context.Context, variant string) ([]entities.TranslationUnit, error) {
	sqlStr, args, err := r.SQ.
		Select("t.msg_id", "t.cat_id", "t.id", "t.source", "t.target", "t.comments",
			"t.author", "t.date_added", "t.date_modified", "t.translated").
		From("translation_unit t").
		Join("catalog c ON c.cat_id = t.cat_id").
		Where(sq.Eq{"c.name": variant}).
		OrderBy("t.id ASC", "t.msg_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load units: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	defer rows.Close()

	var out []entities.TranslationUnit
	for rows.Next() {
		var u entities.TranslationUnit
		if err := rows.Scan(&u.MsgID, &u.CatalogID, &u.ID, &u.Source, &u.Target, &u.Comments,
			&u.Author, &u.DateAdded, &u.DateModified, &u.Translated); err != nil {
			return nil, fmt.Errorf("load units: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	return out, nil
}

func (r *CatalogRepository) InsertUnit(ctx context.Context, catalogID, seq int64, source string, createdAt int64) error {
	sqlStr, args, err := r.SQ.Insert("translation_unit").
		Columns("cat_id", "id", "source", "target", "comments", "date_added").
		Values(catalogID, seq, source, "", "", createdAt).ToSql()
	if err != nil {
		return fmt.Errorf("build insert unit: %w", err)
	}
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

func (r *CatalogRepository) DeleteUnit(ctx context.Context, catalogID int64, source string) (int64, error) {
	return r.execSingle(ctx, r.SQ.Delete("translation_unit").
		Where(sq.Eq{"cat_id": catalogID, "source": source}))
}

func (r *CatalogRepository) UpdateUnit(ctx context.Context, catalogID int64, source, target, comments string, modifiedAt int64) (int64, error) {
	return r.execSingle(ctx, r.SQ.Update("translation_unit").
		Set("target", target).
		Set("comments", comments).
		Set("date_modified", modifiedAt).
		Set("translated", target != "").
		Where(sq.Eq{"cat_id": catalogID, "source": source}))
}

// execSingle commits the statement only when exactly one row matched and
// returns the matched count.
func (r *CatalogRepository) execSingle(ctx context.Context, stmt sq.Sqlizer) (int64, error) {
	sqlStr, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}
	var matched int64
	err = WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		matched, err = res.RowsAffected()
		if err != nil {
			return err
		}
		if matched != 1 {
			return errRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return 0, err
	}
	return matched, nil
}

func (r *CatalogRepository) TouchCatalog(ctx context.Context, catalogID int64, modifiedAt int64) error {
	sqlStr, args, err := r.SQ.Update("catalog").
		Set("date_modified", modifiedAt).
		Where(sq.Eq{"cat_id": catalogID}).ToSql()
	if err != nil {
		return fmt.Errorf("build touch catalog: %w", err)
	}
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("touch catalog: %w", err)
	}
	return nil
}

var errRollback = errors.New("rollback")

// WithTx runs fn within a transaction.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
