package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"courtbook/pkg/models"
)

type CourtRepository struct {
	db *DB
}

func NewCourtRepository(db *DB) *CourtRepository {
	return &CourtRepository{db: db}
}

func (r *CourtRepository) Create(ctx context.Context, c *models.Court) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := r.db.Rebind(`
		INSERT INTO courts (id, name, sport_type, is_available)
		VALUES (?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.SportType, c.IsAvailable)
	return err
}

func (r *CourtRepository) Update(ctx context.Context, c *models.Court) error {
	query := r.db.Rebind(`
		UPDATE courts SET name = ?, sport_type = ?, is_available = ? WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query, c.Name, c.SportType, c.IsAvailable, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CourtRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Court, error) {
	var c models.Court
	query := r.db.Rebind(`SELECT * FROM courts WHERE id = ?`)
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CourtRepository) List(ctx context.Context) ([]models.Court, error) {
	var out []models.Court
	err := r.db.SelectContext(ctx, &out, `SELECT * FROM courts ORDER BY name`)
	return out, err
}

// ListSelectable returns the courts bookable for a sport: available
// courts whose sport type matches case-insensitively. An empty sport
// yields an empty set, which forces explicit sport selection upstream.
func (r *CourtRepository) ListSelectable(ctx context.Context, sport string) ([]models.Court, error) {
	if sport == "" {
		return nil, nil
	}
	var out []models.Court
	query := r.db.Rebind(`
		SELECT * FROM courts
		WHERE LOWER(sport_type) = LOWER(?) AND is_available
		ORDER BY name
	`)
	err := r.db.SelectContext(ctx, &out, query, sport)
	return out, err
}
