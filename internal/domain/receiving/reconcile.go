package receiving

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
)

// ReconciliationLine es el cierre por línea al momento de aprobar.
// Fulfilled + Shortfall == QtyPlan siempre: la partición no crea ni destruye
// unidades. Excess registra sobre-entrega (recibida > planificada) como
// varianza informativa, sin rechazarla ni trasladarla a ningún documento.
type ReconciliationLine struct {
	ItemID      string
	ProductID   string
	POItemID    string
	Unit        string
	QtyPlan     decimal.Decimal
	QtyReceived decimal.Decimal
	Fulfilled   decimal.Decimal // min(recibida, planificada)
	Shortfall   decimal.Decimal // max(0, planificada − recibida)
	Excess      decimal.Decimal // max(0, recibida − planificada)
}

// ChildItemSpec es una línea del documento hijo que carga el faltante.
type ChildItemSpec struct {
	ProductID string
	POItemID  string
	Unit      string
	QtyPlan   decimal.Decimal
}

// ChildSpec describe el documento hijo a crear cuando quedó faltante: DRAFT,
// misma orden de compra y bodega, solo las líneas con faltante y las demás
// cantidades en cero. Los IDs y el consecutivo los asigna la capa de aplicación.
type ChildSpec struct {
	PurchaseOrderID string
	WarehouseID     string
	ParentID        string
	SourceType      string
	Items           []ChildItemSpec
}

// ReconciliationResult es el cómputo efímero de la aprobación: totales finales
// para el impacto en stock (lo ejecuta la capa de persistencia externa) y, si
// hubo faltante, la especificación del documento hijo.
type ReconciliationResult struct {
	Totals Totals
	Lines  []ReconciliationLine
	Child  *ChildSpec
}

// Reconcile computa el cierre de cantidades del documento. Pura y determinista:
// no muta el snapshot ni tiene efectos; la misma entrada produce el mismo
// resultado.
func Reconcile(r entity.GoodsReceipt) ReconciliationResult {
	result := ReconciliationResult{
		Totals: Aggregate(r.Items),
		Lines:  make([]ReconciliationLine, 0, len(r.Items)),
	}
	var childItems []ChildItemSpec
	for i := range r.Items {
		item := &r.Items[i]
		shortfall := item.QtyPlan.Sub(item.QtyReceived)
		if shortfall.LessThan(decimal.Zero) {
			shortfall = decimal.Zero
		}
		excess := item.QtyReceived.Sub(item.QtyPlan)
		if excess.LessThan(decimal.Zero) {
			excess = decimal.Zero
		}
		fulfilled := item.QtyReceived
		if fulfilled.GreaterThan(item.QtyPlan) {
			fulfilled = item.QtyPlan
		}
		result.Lines = append(result.Lines, ReconciliationLine{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			POItemID:    item.POItemID,
			Unit:        item.Unit,
			QtyPlan:     item.QtyPlan,
			QtyReceived: item.QtyReceived,
			Fulfilled:   fulfilled,
			Shortfall:   shortfall,
			Excess:      excess,
		})
		if shortfall.GreaterThan(decimal.Zero) {
			childItems = append(childItems, ChildItemSpec{
				ProductID: item.ProductID,
				POItemID:  item.POItemID,
				Unit:      item.Unit,
				QtyPlan:   shortfall,
			})
		}
	}
	if len(childItems) > 0 {
		result.Child = &ChildSpec{
			PurchaseOrderID: r.PurchaseOrderID,
			WarehouseID:     r.WarehouseID,
			ParentID:        r.ID,
			SourceType:      r.SourceType,
			Items:           childItems,
		}
	}
	return result
}

// Approve finaliza el documento: exige que toda línea tenga estado QC terminal
// (elegibilidad por línea, independiente del enum grueso del documento) y que
// haya al menos una línea. Mueve el documento a COMPLETED — transición
// irreversible: la máquina de estados garantiza que la partición solo puede
// dispararse una vez por documento.
func Approve(r entity.GoodsReceipt) (entity.GoodsReceipt, ReconciliationResult, error) {
	if err := ensureMutable(r, "approve"); err != nil {
		return r, ReconciliationResult{}, err
	}
	if len(r.Items) == 0 {
		return r, ReconciliationResult{}, &InvalidStateError{
			Action: "approve",
			Status: r.Status,
			Reason: "el documento no tiene líneas",
		}
	}
	for i := range r.Items {
		if !r.Items[i].HasTerminalQC() {
			return r, ReconciliationResult{}, &InvalidStateError{
				Action: "approve",
				Status: r.Status,
				Reason: "la línea " + r.Items[i].ID + " no tiene inspección registrada",
			}
		}
	}

	result := Reconcile(r)
	r.Status = entity.ReceiptStatusCompleted
	return r, result, nil
}
