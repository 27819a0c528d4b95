package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Recepciones-api/internal/domain"
	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/repository"
)

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo implementación del puerto GoodsReceiptRepository sobre
// PostgreSQL (usable con pool o tx). Cabecera y líneas se persisten juntas.
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

const receiptColumns = `id, number, status, source_type, transfer_status,
	expected_date, received_date, delivery_note, vehicle_number, driver_name,
	notes, warehouse_id, purchase_order_id, parent_id, created_at, updated_at, created_by`

const receiptItemColumns = `id, receipt_id, product_id, unit, qty_plan,
	qty_received, qty_passed, qty_rejected, qc_status, qc_notes, po_item_id`

// Create persiste la cabecera y todas sus líneas.
func (r *GoodsReceiptRepo) Create(receipt *entity.GoodsReceipt) error {
	query := `
		INSERT INTO goods_receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.Number, receipt.Status, receipt.SourceType, nullable(receipt.TransferStatus),
		receipt.ExpectedDate, receipt.ReceivedDate, receipt.DeliveryNote, receipt.VehicleNumber, receipt.DriverName,
		receipt.Notes, receipt.WarehouseID, nullable(receipt.PurchaseOrderID), nullable(receipt.ParentID),
		receipt.CreatedAt, receipt.UpdatedAt, nullable(receipt.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert goods receipt: %w", err)
	}
	return r.insertItems(receipt)
}

// GetByID obtiene una recepción con sus líneas. Devuelve nil si no existe.
func (r *GoodsReceiptRepo) GetByID(id string) (*entity.GoodsReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM goods_receipts WHERE id = $1`
	receipt, err := scanReceipt(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}
	items, err := r.itemsByReceipt(id)
	if err != nil {
		return nil, err
	}
	receipt.Items = items
	return receipt, nil
}

// Update reescribe la cabecera y reemplaza todas las líneas. El documento es
// la unidad de consistencia: las líneas nunca se actualizan sueltas.
func (r *GoodsReceiptRepo) Update(receipt *entity.GoodsReceipt) error {
	query := `
		UPDATE goods_receipts SET
			status = $2, source_type = $3, transfer_status = $4,
			expected_date = $5, received_date = $6, delivery_note = $7,
			vehicle_number = $8, driver_name = $9, notes = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.Status, receipt.SourceType, nullable(receipt.TransferStatus),
		receipt.ExpectedDate, receipt.ReceivedDate, receipt.DeliveryNote,
		receipt.VehicleNumber, receipt.DriverName, receipt.Notes, receipt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update goods receipt: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM goods_receipt_items WHERE receipt_id = $1`, receipt.ID); err != nil {
		return fmt.Errorf("delete goods receipt items: %w", err)
	}
	return r.insertItems(receipt)
}

// List lista recepciones con filtros opcionales y paginación. Las líneas se
// cargan por documento; los listados son cortos (paginados).
func (r *GoodsReceiptRepo) List(filters repository.GoodsReceiptFilters, limit, offset int) ([]*entity.GoodsReceipt, error) {
	var conds []string
	var args []any
	if filters.Status != "" {
		args = append(args, filters.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.WarehouseID != "" {
		args = append(args, filters.WarehouseID)
		conds = append(conds, fmt.Sprintf("warehouse_id = $%d", len(args)))
	}
	if filters.SourceType != "" {
		args = append(args, filters.SourceType)
		conds = append(conds, fmt.Sprintf("source_type = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM goods_receipts %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		receiptColumns, where, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goods receipts: %w", err)
	}
	defer rows.Close()

	var list []*entity.GoodsReceipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goods receipt: %w", err)
		}
		list = append(list, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, receipt := range list {
		items, err := r.itemsByReceipt(receipt.ID)
		if err != nil {
			return nil, err
		}
		receipt.Items = items
	}
	return list, nil
}

// Delete elimina la recepción y sus líneas.
func (r *GoodsReceiptRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM goods_receipt_items WHERE receipt_id = $1`, id); err != nil {
		return fmt.Errorf("delete goods receipt items: %w", err)
	}
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM goods_receipts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete goods receipt: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GoodsReceiptRepo) insertItems(receipt *entity.GoodsReceipt) error {
	query := `
		INSERT INTO goods_receipt_items (` + receiptItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i := range receipt.Items {
		it := &receipt.Items[i]
		_, err := r.q.Exec(context.Background(), query,
			it.ID, receipt.ID, it.ProductID, it.Unit, it.QtyPlan,
			it.QtyReceived, it.QtyPassed, it.QtyRejected, it.QCStatus, it.QCNotes, nullable(it.POItemID),
		)
		if err != nil {
			return fmt.Errorf("insert goods receipt item: %w", err)
		}
	}
	return nil
}

func (r *GoodsReceiptRepo) itemsByReceipt(receiptID string) ([]entity.GoodsReceiptItem, error) {
	query := `SELECT ` + receiptItemColumns + ` FROM goods_receipt_items WHERE receipt_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list goods receipt items: %w", err)
	}
	defer rows.Close()
	var items []entity.GoodsReceiptItem
	for rows.Next() {
		var it entity.GoodsReceiptItem
		var poItemID *string
		if err := rows.Scan(
			&it.ID, &it.ReceiptID, &it.ProductID, &it.Unit, &it.QtyPlan,
			&it.QtyReceived, &it.QtyPassed, &it.QtyRejected, &it.QCStatus, &it.QCNotes, &poItemID,
		); err != nil {
			return nil, fmt.Errorf("scan goods receipt item: %w", err)
		}
		if poItemID != nil {
			it.POItemID = *poItemID
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanReceipt(row pgx.Row) (*entity.GoodsReceipt, error) {
	var r entity.GoodsReceipt
	var transferStatus, purchaseOrderID, parentID, createdBy *string
	err := row.Scan(
		&r.ID, &r.Number, &r.Status, &r.SourceType, &transferStatus,
		&r.ExpectedDate, &r.ReceivedDate, &r.DeliveryNote, &r.VehicleNumber, &r.DriverName,
		&r.Notes, &r.WarehouseID, &purchaseOrderID, &parentID, &r.CreatedAt, &r.UpdatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if transferStatus != nil {
		r.TransferStatus = *transferStatus
	}
	if purchaseOrderID != nil {
		r.PurchaseOrderID = *purchaseOrderID
	}
	if parentID != nil {
		r.ParentID = *parentID
	}
	if createdBy != nil {
		r.CreatedBy = *createdBy
	}
	return &r, nil
}

// nullable convierte "" en NULL para columnas con FK o unicidad parcial.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
