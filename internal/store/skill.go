package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/HBTGmbH/pwr-skill-service/internal/models"
)

// SkillStore manages skills in the database.
type SkillStore struct {
	db *sql.DB
}

// NewSkillStore returns a new SkillStore.
func NewSkillStore(db *sql.DB) *SkillStore {
	return &SkillStore{db: db}
}

const skillColumns = `id, qualifier, category_id, is_custom`

// scanSkill scans a row into a Skill struct.
func scanSkill(scanner interface{ Scan(...any) error }) (*models.Skill, error) {
	var sk models.Skill
	err := scanner.Scan(&sk.ID, &sk.Qualifier, &sk.CategoryID, &sk.Custom)
	if err != nil {
		return nil, err
	}
	return &sk, nil
}

// querySkills runs a filtered select and attaches localized qualifiers and
// versions to every returned skill.
func (s *SkillStore) querySkills(ctx context.Context, where string, args ...any) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+skillColumns+` FROM skill `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var items []models.Skill
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		items = append(items, *sk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachDetails(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachDetails loads locales and versions for the given skills with one
// query per side table.
func (s *SkillStore) attachDetails(ctx context.Context, items []models.Skill) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int32, len(items))
	byID := make(map[int]*models.Skill, len(items))
	for i := range items {
		ids[i] = int32(items[i].ID)
		byID[items[i].ID] = &items[i]
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT skill_id, locale, qualifier
		FROM skill_locales
		WHERE skill_id = ANY($1)
		ORDER BY skill_id, locale
	`, ids)
	if err != nil {
		return fmt.Errorf("query skill locales: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var skillID int
		var q models.LocalizedQualifier
		if err := rows.Scan(&skillID, &q.Locale, &q.Qualifier); err != nil {
			return fmt.Errorf("scan skill locale: %w", err)
		}
		sk := byID[skillID]
		sk.Qualifiers = append(sk.Qualifiers, q)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	versionRows, err := s.db.QueryContext(ctx, `
		SELECT skill_id, version
		FROM skill_versions
		WHERE skill_id = ANY($1)
		ORDER BY skill_id, version
	`, ids)
	if err != nil {
		return fmt.Errorf("query skill versions: %w", err)
	}
	defer versionRows.Close()
	for versionRows.Next() {
		var skillID int
		var version string
		if err := versionRows.Scan(&skillID, &version); err != nil {
			return fmt.Errorf("scan skill version: %w", err)
		}
		sk := byID[skillID]
		sk.Versions = append(sk.Versions, version)
	}
	return versionRows.Err()
}

func (s *SkillStore) queryOne(ctx context.Context, where string, args ...any) (*models.Skill, error) {
	items, err := s.querySkills(ctx, where, args...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ByID retrieves a skill by id. Returns nil if not found.
func (s *SkillStore) ByID(ctx context.Context, id int) (*models.Skill, error) {
	return s.queryOne(ctx, `WHERE id = $1`, id)
}

// ByQualifier retrieves a skill by its primary qualifier. Qualifiers are
// not unique at the schema level; the first match by id wins.
func (s *SkillStore) ByQualifier(ctx context.Context, qualifier string) (*models.Skill, error) {
	return s.queryOne(ctx, `WHERE qualifier = $1 ORDER BY id LIMIT 1`, qualifier)
}

// ByQualifiers returns every skill whose primary qualifier is in the set.
func (s *SkillStore) ByQualifiers(ctx context.Context, qualifiers []string) ([]models.Skill, error) {
	if len(qualifiers) == 0 {
		return nil, nil
	}
	return s.querySkills(ctx, `WHERE qualifier = ANY($1) ORDER BY id`, qualifiers)
}

// ByCategory returns every skill attached to the given category.
func (s *SkillStore) ByCategory(ctx context.Context, categoryID int) ([]models.Skill, error) {
	return s.querySkills(ctx, `WHERE category_id = $1 ORDER BY id`, categoryID)
}

// All returns every skill.
func (s *SkillStore) All(ctx context.Context) ([]models.Skill, error) {
	return s.querySkills(ctx, `ORDER BY id`)
}

// FirstN returns a bounded sample of skills ordered by id, for diagnostic
// use.
func (s *SkillStore) FirstN(ctx context.Context, n int) ([]models.Skill, error) {
	return s.querySkills(ctx, `ORDER BY id LIMIT $1`, n)
}

// Create inserts a new skill and assigns its id.
func (s *SkillStore) Create(ctx context.Context, sk *models.Skill) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO skill (qualifier, category_id, is_custom)
		VALUES ($1, $2, $3)
		RETURNING id
	`, sk.Qualifier, sk.CategoryID, sk.Custom).Scan(&sk.ID)
	if err != nil {
		return fmt.Errorf("create skill: %w", err)
	}
	return s.replaceDetails(ctx, sk)
}

// Update modifies an existing skill, replacing its locale and version
// sets.
func (s *SkillStore) Update(ctx context.Context, sk *models.Skill) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE skill SET qualifier = $1, category_id = $2, is_custom = $3
		WHERE id = $4
	`, sk.Qualifier, sk.CategoryID, sk.Custom, sk.ID)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	return s.replaceDetails(ctx, sk)
}

func (s *SkillStore) replaceDetails(ctx context.Context, sk *models.Skill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM skill_locales WHERE skill_id = $1`, sk.ID); err != nil {
		return fmt.Errorf("clear skill locales: %w", err)
	}
	for _, q := range sk.Qualifiers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO skill_locales (skill_id, locale, qualifier)
			VALUES ($1, $2, $3)
		`, sk.ID, q.Locale, q.Qualifier); err != nil {
			return fmt.Errorf("insert skill locale: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM skill_versions WHERE skill_id = $1`, sk.ID); err != nil {
		return fmt.Errorf("clear skill versions: %w", err)
	}
	for _, version := range sk.Versions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO skill_versions (skill_id, version)
			VALUES ($1, $2)
		`, sk.ID, version); err != nil {
			return fmt.Errorf("insert skill version: %w", err)
		}
	}
	return tx.Commit()
}

// Delete removes a skill row. Side tables cascade at the schema level.
func (s *SkillStore) Delete(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM skill WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return nil
}

// DeleteByCategory removes every skill attached to the given category.
func (s *SkillStore) DeleteByCategory(ctx context.Context, categoryID int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM skill WHERE category_id = $1`, categoryID); err != nil {
		return fmt.Errorf("delete skills by category: %w", err)
	}
	return nil
}
