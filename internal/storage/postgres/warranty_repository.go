package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

type warrantyRepository struct {
	db *sql.DB
}

// NewWarrantyRepository создаёт PostgreSQL-реализацию WarrantyRepository.
func NewWarrantyRepository(store *Store) domain.WarrantyRepository {
	return &warrantyRepository{db: store.DB()}
}

func (r *warrantyRepository) Upsert(w domain.Warranty) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var comment sql.NullString
	if w.Comment != "" {
		comment = sql.NullString{String: w.Comment, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO warranty (comment, item_uid, status, warranty_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_uid) DO UPDATE
		SET status = EXCLUDED.status,
		    warranty_date = EXCLUDED.warranty_date
	`, comment, w.ItemUID, string(w.Status), w.WarrantyDate)
	if err != nil {
		return fmt.Errorf("upsert warranty: %w", err)
	}

	return nil
}

func (r *warrantyRepository) GetByItemUID(itemUID uuid.UUID) (domain.Warranty, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		w       domain.Warranty
		status  string
		comment sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, comment, item_uid, status, warranty_date
		FROM warranty
		WHERE item_uid = $1
	`, itemUID).Scan(&w.ID, &comment, &w.ItemUID, &status, &w.WarrantyDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Warranty{}, domain.ErrWarrantyNotFound
		}
		return domain.Warranty{}, fmt.Errorf("select warranty: %w", err)
	}
	w.Status = domain.WarrantyStatus(status)
	w.Comment = comment.String

	return w, nil
}

func (r *warrantyRepository) SetStatus(itemUID uuid.UUID, status domain.WarrantyStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE warranty
		SET status = $1
		WHERE item_uid = $2
	`, string(status), itemUID)
	if err != nil {
		return fmt.Errorf("update warranty status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrWarrantyNotFound
	}

	return nil
}

var _ domain.WarrantyRepository = (*warrantyRepository)(nil)
