package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

type warehouseRepository struct {
	db *sql.DB
}

// NewWarehouseRepository создаёт PostgreSQL-реализацию WarehouseRepository.
// Reserve и Release выполняются в транзакции с блокировкой строки каталога,
// так что остаток не уходит в минус при параллельных покупках.
func NewWarehouseRepository(store *Store) domain.WarehouseRepository {
	return &warehouseRepository{db: store.DB()}
}

func (r *warehouseRepository) Reserve(orderUID uuid.UUID, model, size string) (domain.OrderItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var item domain.Item
	err = tx.QueryRowContext(ctx, `
		SELECT id, available_count
		FROM items
		WHERE model = $1 AND size = $2
		FOR UPDATE
	`, model, size).Scan(&item.ID, &item.AvailableCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderItem{}, domain.ErrItemNotFound
		}
		return domain.OrderItem{}, fmt.Errorf("select item for reserve: %w", err)
	}

	if item.AvailableCount <= 0 {
		err = domain.ErrItemNotAvailable
		return domain.OrderItem{}, err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE items
		SET available_count = available_count - 1
		WHERE id = $1
	`, item.ID); err != nil {
		return domain.OrderItem{}, fmt.Errorf("decrement item count: %w", err)
	}

	row := domain.OrderItem{OrderUID: orderUID}

	// Повторный резерв под тем же order_uid реактивирует существующую
	// строку вместо вставки новой.
	err = tx.QueryRowContext(ctx, `
		SELECT id, order_item_uid, item_id
		FROM order_items
		WHERE order_uid = $1
		FOR UPDATE
	`, orderUID).Scan(&row.ID, &row.OrderItemUID, &row.ItemID)
	switch {
	case err == nil:
		if _, err = tx.ExecContext(ctx, `
			UPDATE order_items
			SET canceled = FALSE
			WHERE order_uid = $1
		`, orderUID); err != nil {
			return domain.OrderItem{}, fmt.Errorf("reactivate order item: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		row.OrderItemUID = uuid.New()
		row.ItemID = item.ID
		if err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (canceled, order_item_uid, order_uid, item_id)
			VALUES (FALSE, $1, $2, $3)
			RETURNING id
		`, row.OrderItemUID, orderUID, item.ID).Scan(&row.ID); err != nil {
			return domain.OrderItem{}, fmt.Errorf("insert order item: %w", err)
		}
	default:
		return domain.OrderItem{}, fmt.Errorf("select order item for reserve: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.OrderItem{}, fmt.Errorf("commit reserve: %w", err)
	}

	return row, nil
}

func (r *warehouseRepository) Release(orderItemUID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var itemID int64
	err = tx.QueryRowContext(ctx, `
		SELECT item_id
		FROM order_items
		WHERE order_item_uid = $1
		FOR UPDATE
	`, orderItemUID).Scan(&itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrOrderItemNotFound
		}
		return fmt.Errorf("select order item for release: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE order_items
		SET canceled = TRUE
		WHERE order_item_uid = $1
	`, orderItemUID); err != nil {
		return fmt.Errorf("cancel order item: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE items
		SET available_count = available_count + 1
		WHERE id = $1
	`, itemID)
	if err != nil {
		return fmt.Errorf("increment item count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrItemNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit release: %w", err)
	}

	return nil
}

func (r *warehouseRepository) ItemInfo(orderItemUID uuid.UUID) (domain.Item, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var itemID int64
	err := r.db.QueryRowContext(ctx, `
		SELECT item_id
		FROM order_items
		WHERE order_item_uid = $1
	`, orderItemUID).Scan(&itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, domain.ErrOrderItemNotFound
		}
		return domain.Item{}, fmt.Errorf("select order item: %w", err)
	}

	var item domain.Item
	err = r.db.QueryRowContext(ctx, `
		SELECT id, available_count, model, size
		FROM items
		WHERE id = $1
	`, itemID).Scan(&item.ID, &item.AvailableCount, &item.Model, &item.Size)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, domain.ErrItemNotFound
		}
		return domain.Item{}, fmt.Errorf("select item: %w", err)
	}

	return item, nil
}

var _ domain.WarehouseRepository = (*warehouseRepository)(nil)
