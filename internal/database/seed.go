package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// fallbackCategory is the qualifier of the catch-all category assigned to
// skills without a more specific classification. The categorization
// service treats its absence as a fatal data-integrity fault, so Seed
// creates it idempotently on every startup.
const fallbackCategory = "Other"

// Seed ensures the bootstrap data the service cannot run without. It is
// safe to call repeatedly.
func Seed(db *sql.DB) error {
	res, err := db.Exec(`
		INSERT INTO skill_category (qualifier, is_custom, is_display)
		VALUES ($1, FALSE, TRUE)
		ON CONFLICT (qualifier) DO NOTHING
	`, fallbackCategory)
	if err != nil {
		return fmt.Errorf("seed fallback category: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("seeded fallback category", "qualifier", fallbackCategory)
	}
	return nil
}
