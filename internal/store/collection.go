package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Zachkp/portfolio/internal/content"
)

// Collection is the gorm implementation of content.Collection for one table.
type Collection[T any, P interface {
	*T
	content.Entity
}] struct {
	db *gorm.DB
}

// NewCollection binds a collection to db. P is inferred from T, so callers
// write NewCollection[content.Project](db).
func NewCollection[T any, P interface {
	*T
	content.Entity
}](db *gorm.DB) *Collection[T, P] {
	return &Collection[T, P]{db: db}
}

func (c *Collection[T, P]) name() string {
	var zero T
	return P(&zero).TableName()
}

// List returns rows in the collection's fixed order.
func (c *Collection[T, P]) List(ctx context.Context, q content.Query) ([]T, error) {
	var zero T
	tx := c.db.WithContext(ctx).Order(P(&zero).ListOrder())
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.ExcludeSlug != "" {
		tx = tx.Where("slug <> ?", q.ExcludeSlug)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	out := make([]T, 0, 16)
	if err := tx.Find(&out).Error; err != nil {
		return nil, translate("list "+c.name(), err)
	}
	return out, nil
}

func (c *Collection[T, P]) BySlug(ctx context.Context, slug string) (T, error) {
	var out T
	if err := c.db.WithContext(ctx).Where("slug = ?", slug).Take(&out).Error; err != nil {
		return out, translate("get "+c.name()+" "+slug, err)
	}
	return out, nil
}

func (c *Collection[T, P]) ByID(ctx context.Context, id int64) (T, error) {
	var out T
	if err := c.db.WithContext(ctx).Where("id = ?", id).Take(&out).Error; err != nil {
		return out, translate(fmt.Sprintf("get %s %d", c.name(), id), err)
	}
	return out, nil
}

// Insert creates item with a store-assigned id and returns the stored row.
func (c *Collection[T, P]) Insert(ctx context.Context, item T) (T, error) {
	P(&item).SetKey(0)
	if err := c.db.WithContext(ctx).Create(&item).Error; err != nil {
		var zero T
		return zero, translate("insert "+c.name(), err)
	}
	return item, nil
}

// Update overwrites every editable column of row id with item.
func (c *Collection[T, P]) Update(ctx context.Context, id int64, item T) (T, error) {
	P(&item).SetKey(id)
	res := c.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(&item)
	if res.Error != nil {
		var zero T
		return zero, translate(fmt.Sprintf("update %s %d", c.name(), id), res.Error)
	}
	if res.RowsAffected == 0 {
		var zero T
		return zero, fmt.Errorf("update %s %d: %w", c.name(), id, content.ErrNotFound)
	}
	return c.ByID(ctx, id)
}

func (c *Collection[T, P]) Delete(ctx context.Context, id int64) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(fmt.Sprintf("delete %s %d", c.name(), id), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s %d: %w", c.name(), id, content.ErrNotFound)
	}
	return nil
}

// Count is used by the admin dashboard.
func (c *Collection[T, P]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, translate("count "+c.name(), err)
	}
	return n, nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, content.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, content.ErrDuplicateSlug)
	default:
		return &content.TransportError{Op: op, Err: err}
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
