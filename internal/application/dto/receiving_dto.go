package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReceiptRequest crea una recepción DRAFT contra una orden de compra.
// Sin items explícitos se toman todas las líneas de la orden con su cantidad
// completa como plan.
type CreateReceiptRequest struct {
	PurchaseOrderID string                     `json:"purchase_order_id" validate:"required,uuid"`
	SourceType      string                     `json:"source_type" validate:"omitempty,oneof=PURCHASE TRANSFER"`
	ExpectedDate    *time.Time                 `json:"expected_date"`
	Notes           string                     `json:"notes"`
	Items           []CreateReceiptItemRequest `json:"items" validate:"omitempty,dive"`
}

// CreateReceiptItemRequest selecciona una línea de la orden y su plan.
type CreateReceiptItemRequest struct {
	POItemID string          `json:"po_item_id" validate:"required,uuid"`
	QtyPlan  decimal.Decimal `json:"qty_plan"`
}

// MarkArrivedRequest registra la llegada física de la mercancía.
type MarkArrivedRequest struct {
	ReceivedDate  *time.Time           `json:"received_date"`
	DeliveryNote  string               `json:"delivery_note"`
	VehicleNumber string               `json:"vehicle_number"`
	DriverName    string               `json:"driver_name"`
	Items         []ArrivalItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ArrivalItemRequest cantidad recibida por línea.
type ArrivalItemRequest struct {
	ID          string          `json:"id" validate:"required"`
	QtyReceived decimal.Decimal `json:"qty_received"`
}

// QCCheckRequest registra la inspección de calidad por lote.
type QCCheckRequest struct {
	Items []QCItemRequest `json:"items" validate:"required,min=1,dive"`
}

// QCItemRequest resultado de inspección por línea.
type QCItemRequest struct {
	ID          string          `json:"id" validate:"required"`
	QtyPassed   decimal.Decimal `json:"qty_passed"`
	QtyRejected decimal.Decimal `json:"qty_rejected"`
	Notes       string          `json:"notes"`
}

// ApproveRequest aprueba la recepción y dispara la reconciliación.
type ApproveRequest struct {
	Notes string `json:"notes"`
}

// ReceiptItemResponse salida de una línea de recepción.
type ReceiptItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Unit        string          `json:"unit"`
	QtyPlan     decimal.Decimal `json:"qty_plan"`
	QtyReceived decimal.Decimal `json:"qty_received"`
	QtyPassed   decimal.Decimal `json:"qty_passed"`
	QtyRejected decimal.Decimal `json:"qty_rejected"`
	QCStatus    string          `json:"qc_status"`
	QCNotes     string          `json:"qc_notes,omitempty"`
	POItemID    string          `json:"po_item_id,omitempty"`
}

// ReceiptResponse salida de una recepción completa.
type ReceiptResponse struct {
	ID              string                `json:"id"`
	Number          string                `json:"number"`
	Status          string                `json:"status"`
	SourceType      string                `json:"source_type"`
	TransferStatus  string                `json:"transfer_status,omitempty"`
	ExpectedDate    *time.Time            `json:"expected_date,omitempty"`
	ReceivedDate    *time.Time            `json:"received_date,omitempty"`
	DeliveryNote    string                `json:"delivery_note,omitempty"`
	VehicleNumber   string                `json:"vehicle_number,omitempty"`
	DriverName      string                `json:"driver_name,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	WarehouseID     string                `json:"warehouse_id"`
	PurchaseOrderID string                `json:"purchase_order_id,omitempty"`
	ParentID        string                `json:"parent_id,omitempty"`
	Items           []ReceiptItemResponse `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// SpawnedReceiptRef referencia al documento hijo creado por faltante.
type SpawnedReceiptRef struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// UpdatedReceiptResponse resultado de una acción del flujo. SpawnedReceipt
// solo viene en la aprobación cuando quedó faltante.
type UpdatedReceiptResponse struct {
	Receipt        ReceiptResponse    `json:"receipt"`
	SpawnedReceipt *SpawnedReceiptRef `json:"spawned_receipt,omitempty"`
}

// ReceiptSummaryResponse proyección de solo lectura para la UI: agregados del
// libro de cantidades y la única acción siguiente permitida.
type ReceiptSummaryResponse struct {
	ReceiptID     string          `json:"receipt_id"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	TotalPlan     decimal.Decimal `json:"total_plan"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalPassed   decimal.Decimal `json:"total_passed"`
	TotalRejected decimal.Decimal `json:"total_rejected"`
	CompletionPct int             `json:"completion_pct"`
	NextAction    string          `json:"next_action"`
}

// ViolationResponse una línea que violó un invariante de cantidades.
type ViolationResponse struct {
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id,omitempty"`
	Reason    string `json:"reason"`
}

// ValidationErrorResponse cuerpo 422 con el detalle por línea.
type ValidationErrorResponse struct {
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Violations []ViolationResponse `json:"violations"`
}

// DeliveryNoteSuggestionResponse llegada sugerida desde la remisión XML del
// proveedor: líneas emparejadas por SKU listas para revisar y enviar.
type DeliveryNoteSuggestionResponse struct {
	DeliveryNote  string               `json:"delivery_note"`
	VehicleNumber string               `json:"vehicle_number,omitempty"`
	DriverName    string               `json:"driver_name,omitempty"`
	Items         []ArrivalItemRequest `json:"items"`
	Unmatched     []string             `json:"unmatched_skus,omitempty"`
}
