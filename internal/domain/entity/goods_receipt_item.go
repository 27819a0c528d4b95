package entity

import "github.com/shopspring/decimal"

// Estados QC por línea. Derivados siempre por receiving.EvalQC, nunca
// asignados directamente por un caller.
const (
	QCStatusPending  = "PENDING"  // sin cantidad recibida todavía
	QCStatusArrived  = "ARRIVED"  // recibida, pendiente de inspección
	QCStatusPassed   = "PASSED"   // todo aprobado
	QCStatusRejected = "REJECTED" // todo rechazado
	QCStatusPartial  = "PARTIAL"  // aprobado y rechazado mezclados
)

// GoodsReceiptItem es una línea de producto dentro de una recepción.
// Invariante tras QC: QtyPassed + QtyRejected == QtyReceived (tolerancia 1e-4).
type GoodsReceiptItem struct {
	ID          string
	ReceiptID   string
	ProductID   string
	Unit        string
	QtyPlan     decimal.Decimal // planificada a recibir
	QtyReceived decimal.Decimal // realmente recibida
	QtyPassed   decimal.Decimal // aprobada en inspección
	QtyRejected decimal.Decimal // rechazada en inspección
	QCStatus    string
	QCNotes     string
	POItemID    string // línea de orden de compra origen (lleva precio unitario)
}

// HasTerminalQC indica si la línea ya tiene un estado QC definitivo.
func (i *GoodsReceiptItem) HasTerminalQC() bool {
	switch i.QCStatus {
	case QCStatusPassed, QCStatusRejected, QCStatusPartial:
		return true
	}
	return false
}
