// Package store implements the persistence collaborators of the skill
// service on PostgreSQL. Stores are plain structs over *sql.DB; lookup
// methods return (nil, nil) when no row matches.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HBTGmbH/pwr-skill-service/internal/models"
)

// CategoryStore manages skill categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, qualifier, category_id, is_blacklisted, is_custom, is_display`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Qualifier, &c.ParentID, &c.Blacklisted, &c.Custom, &c.Display)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// queryCategories runs a filtered select and attaches localized
// qualifiers to every returned category.
func (s *CategoryStore) queryCategories(ctx context.Context, where string, args ...any) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM skill_category `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachLocales(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachLocales loads the localized qualifiers for the given categories in
// a single query.
func (s *CategoryStore) attachLocales(ctx context.Context, items []models.Category) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int32, len(items))
	byID := make(map[int]*models.Category, len(items))
	for i := range items {
		ids[i] = int32(items[i].ID)
		byID[items[i].ID] = &items[i]
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, locale, qualifier
		FROM category_locales
		WHERE category_id = ANY($1)
		ORDER BY category_id, locale
	`, ids)
	if err != nil {
		return fmt.Errorf("query category locales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID int
		var q models.LocalizedQualifier
		if err := rows.Scan(&categoryID, &q.Locale, &q.Qualifier); err != nil {
			return fmt.Errorf("scan category locale: %w", err)
		}
		c := byID[categoryID]
		c.Qualifiers = append(c.Qualifiers, q)
	}
	return rows.Err()
}

func (s *CategoryStore) queryOne(ctx context.Context, where string, args ...any) (*models.Category, error) {
	items, err := s.queryCategories(ctx, where, args...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ByID retrieves a category by id. Returns nil if not found.
func (s *CategoryStore) ByID(ctx context.Context, id int) (*models.Category, error) {
	return s.queryOne(ctx, `WHERE id = $1`, id)
}

// ByQualifier retrieves a category by its unique qualifier.
func (s *CategoryStore) ByQualifier(ctx context.Context, qualifier string) (*models.Category, error) {
	return s.queryOne(ctx, `WHERE qualifier = $1`, qualifier)
}

// Children returns the direct child categories of a parent.
func (s *CategoryStore) Children(ctx context.Context, parentID int) ([]models.Category, error) {
	return s.queryCategories(ctx, `WHERE category_id = $1 ORDER BY id`, parentID)
}

// Roots returns all categories without a parent.
func (s *CategoryStore) Roots(ctx context.Context) ([]models.Category, error) {
	return s.queryCategories(ctx, `WHERE category_id IS NULL ORDER BY id`)
}

// All returns every category.
func (s *CategoryStore) All(ctx context.Context) ([]models.Category, error) {
	return s.queryCategories(ctx, `ORDER BY id`)
}

// Blacklisted returns every blacklisted category.
func (s *CategoryStore) Blacklisted(ctx context.Context) ([]models.Category, error) {
	return s.queryCategories(ctx, `WHERE is_blacklisted ORDER BY id`)
}

// Create inserts a new category and assigns its id.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO skill_category (qualifier, category_id, is_blacklisted, is_custom, is_display)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.Qualifier, c.ParentID, c.Blacklisted, c.Custom, c.Display).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return s.replaceLocales(ctx, c)
}

// Update modifies an existing category, replacing its locale set.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE skill_category SET
			qualifier = $1, category_id = $2, is_blacklisted = $3,
			is_custom = $4, is_display = $5
		WHERE id = $6
	`, c.Qualifier, c.ParentID, c.Blacklisted, c.Custom, c.Display, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return s.replaceLocales(ctx, c)
}

func (s *CategoryStore) replaceLocales(ctx context.Context, c *models.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_locales WHERE category_id = $1`, c.ID); err != nil {
		return fmt.Errorf("clear category locales: %w", err)
	}
	for _, q := range c.Qualifiers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO category_locales (category_id, locale, qualifier)
			VALUES ($1, $2, $3)
		`, c.ID, q.Locale, q.Qualifier); err != nil {
			return fmt.Errorf("insert category locale: %w", err)
		}
	}
	return tx.Commit()
}

// Delete removes a category row. Locale rows cascade at the schema level.
func (s *CategoryStore) Delete(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM skill_category WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
