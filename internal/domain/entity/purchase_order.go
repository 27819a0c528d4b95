package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra. El ciclo completo de compras vive en el
// sistema externo; aquí solo lo necesario para validar recepciones.
const (
	POStatusDraft    = "DRAFT"
	POStatusApproved = "APPROVED"
	POStatusClosed   = "CLOSED"
)

// PurchaseOrder es el compromiso de compra contra el que se recibe mercancía.
type PurchaseOrder struct {
	ID           string
	Number       string
	Status       string
	SupplierName string
	WarehouseID  string
	Currency     string
	OrderDate    time.Time
	ExpectedDate *time.Time
	Notes        string
	Items        []PurchaseOrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseOrderItem es una línea de la orden; UnitPrice se usa para valorar
// las cantidades aprobadas al momento de afectar stock.
type PurchaseOrderItem struct {
	ID                  string
	OrderID             string
	ProductID           string
	Unit                string
	Quantity            decimal.Decimal
	UnitPrice           decimal.Decimal
	FieldReportVerified bool // informe de obra verificado (exigido en bodegas WIP)
}

// ItemByID busca una línea por su ID. Devuelve nil si no existe.
func (po *PurchaseOrder) ItemByID(id string) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ID == id {
			return &po.Items[i]
		}
	}
	return nil
}
