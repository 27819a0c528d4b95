package entity

import "time"

// Estados del documento de recepción. Las transiciones válidas viven en
// internal/domain/receiving (máquina de estados); aquí solo los valores.
const (
	ReceiptStatusDraft     = "DRAFT"     // creado, cantidades planificadas
	ReceiptStatusArrived   = "ARRIVED"   // mercancía llegó a bodega
	ReceiptStatusPassed    = "PASSED"    // control de calidad registrado
	ReceiptStatusCompleted = "COMPLETED" // aprobado, impacto en stock (terminal)
	ReceiptStatusCancelled = "CANCELLED" // anulado antes de afectar stock (terminal)
)

// Origen de la recepción.
const (
	ReceiptSourcePurchase = "PURCHASE" // compra ordinaria a proveedor
	ReceiptSourceTransfer = "TRANSFER" // traslado entre bodegas
)

// Estado del traslado (solo aplica si SourceType = TRANSFER).
const (
	TransferStatusPending   = "PENDING"    // aún no despachado por la bodega origen
	TransferStatusInTransit = "IN_TRANSIT" // despachado, en camino
	TransferStatusReceived  = "RECEIVED"   // recibido en destino
)

// GoodsReceipt representa un evento de recepción de mercancía contra una
// orden de compra o un traslado entre bodegas.
type GoodsReceipt struct {
	ID              string
	Number          string // consecutivo legible, ej. GR-20250901-0042
	Status          string
	SourceType      string // PURCHASE o TRANSFER
	TransferStatus  string // solo TRANSFER
	ExpectedDate    *time.Time
	ReceivedDate    *time.Time
	DeliveryNote    string // número de remisión del proveedor
	VehicleNumber   string
	DriverName      string
	Notes           string
	WarehouseID     string
	PurchaseOrderID string
	ParentID        string // recepción padre si este documento nació de un faltante
	Items           []GoodsReceiptItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string // UserID
}

// IsTerminal indica si el documento ya no admite mutaciones.
func (r *GoodsReceipt) IsTerminal() bool {
	return r.Status == ReceiptStatusCompleted || r.Status == ReceiptStatusCancelled
}
