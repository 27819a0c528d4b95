package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Recepciones-api/internal/domain"
	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre
// PostgreSQL (usable con pool o tx). Las órdenes llegan replicadas del sistema
// de compras; aquí solo se leen y se marca el informe de obra.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, number, status, supplier_name, warehouse_id, currency,
	order_date, expected_date, notes, created_at, updated_at`

// GetByID obtiene una orden con sus líneas. Devuelve nil si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	var po entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&po.ID, &po.Number, &po.Status, &po.SupplierName, &po.WarehouseID, &po.Currency,
		&po.OrderDate, &po.ExpectedDate, &po.Notes, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	items, err := r.itemsByOrder(id)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return &po, nil
}

// List lista órdenes, opcionalmente filtradas por estado, con paginación.
func (r *PurchaseOrderRepo) List(status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders
		WHERE ($1 = '' OR status = $1) ORDER BY order_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(
			&po.ID, &po.Number, &po.Status, &po.SupplierName, &po.WarehouseID, &po.Currency,
			&po.OrderDate, &po.ExpectedDate, &po.Notes, &po.CreatedAt, &po.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range list {
		items, err := r.itemsByOrder(po.ID)
		if err != nil {
			return nil, err
		}
		po.Items = items
	}
	return list, nil
}

// SetFieldReportVerified marca o desmarca el informe de obra de una línea.
func (r *PurchaseOrderRepo) SetFieldReportVerified(poItemID string, verified bool) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE purchase_order_items SET field_report_verified = $2 WHERE id = $1`,
		poItemID, verified,
	)
	if err != nil {
		return fmt.Errorf("set field report verified: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) itemsByOrder(orderID string) ([]entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, order_id, product_id, unit, quantity, unit_price, field_report_verified
		FROM purchase_order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.Unit, &it.Quantity, &it.UnitPrice, &it.FieldReportVerified,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
