package receiving

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
)

// qtyTolerance es la tolerancia flotante del invariante de conservación:
// |aprobada + rechazada − recibida| ≤ 1e-4.
var qtyTolerance = decimal.New(1, -4)

var oneHundred = decimal.NewFromInt(100)

// ArrivalLine es la cantidad recibida reportada para una línea.
type ArrivalLine struct {
	ItemID      string
	QtyReceived decimal.Decimal
}

// QCLine es el resultado de inspección reportado para una línea.
type QCLine struct {
	ItemID      string
	QtyPassed   decimal.Decimal
	QtyRejected decimal.Decimal
	Notes       string
}

// RecordArrival fija la cantidad recibida de una línea. No toca los campos QC
// salvo mover el estado a ARRIVED. Devuelve la línea nueva sin mutar la original.
func RecordArrival(item entity.GoodsReceiptItem, qtyReceived decimal.Decimal) (entity.GoodsReceiptItem, error) {
	if v := validateArrival(item, qtyReceived); v != nil {
		return item, &ValidationError{Violations: []ItemViolation{*v}}
	}
	item.QtyReceived = qtyReceived
	item.QCStatus = InitialQC(true)
	return item, nil
}

// RecordQC fija las cantidades de inspección de una línea y deriva su estado QC.
// Exige aprobada ≥ 0, rechazada ≥ 0 y conservación contra la cantidad recibida.
func RecordQC(item entity.GoodsReceiptItem, qtyPassed, qtyRejected decimal.Decimal, notes string) (entity.GoodsReceiptItem, error) {
	if v := validateQC(item, qtyPassed, qtyRejected); v != nil {
		return item, &ValidationError{Violations: []ItemViolation{*v}}
	}
	item.QtyPassed = qtyPassed
	item.QtyRejected = qtyRejected
	item.QCNotes = notes
	item.QCStatus = EvalQC(qtyPassed, qtyRejected)
	return item, nil
}

// ApplyArrival valida y aplica un lote de llegada sobre todas las líneas del
// documento. Todo-o-nada: si cualquier línea falla, ninguna se modifica y el
// error lista cada violación. Cada línea del documento debe venir en el lote.
func ApplyArrival(items []entity.GoodsReceiptItem, lines []ArrivalLine) ([]entity.GoodsReceiptItem, error) {
	byItem, violations := indexArrival(items, lines)
	for i := range items {
		line, ok := byItem[items[i].ID]
		if !ok {
			violations = append(violations, ItemViolation{
				ItemID:    items[i].ID,
				ProductID: items[i].ProductID,
				Reason:    "sin cantidad recibida en el lote",
			})
			continue
		}
		if v := validateArrival(items[i], line.QtyReceived); v != nil {
			violations = append(violations, *v)
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	out := make([]entity.GoodsReceiptItem, len(items))
	for i := range items {
		updated, err := RecordArrival(items[i], byItem[items[i].ID].QtyReceived)
		if err != nil {
			return nil, err
		}
		out[i] = updated
	}
	return out, nil
}

// ApplyQC valida y aplica un lote de inspección sobre todas las líneas del
// documento. Es la única puerta de validación antes de aceptar un envío QC:
// corre sobre cada línea y una sola mala aborta el lote completo.
func ApplyQC(items []entity.GoodsReceiptItem, lines []QCLine) ([]entity.GoodsReceiptItem, error) {
	byItem, violations := indexQC(items, lines)
	for i := range items {
		line, ok := byItem[items[i].ID]
		if !ok {
			violations = append(violations, ItemViolation{
				ItemID:    items[i].ID,
				ProductID: items[i].ProductID,
				Reason:    "sin resultado de inspección en el lote",
			})
			continue
		}
		if v := validateQC(items[i], line.QtyPassed, line.QtyRejected); v != nil {
			violations = append(violations, *v)
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	out := make([]entity.GoodsReceiptItem, len(items))
	for i := range items {
		line := byItem[items[i].ID]
		updated, err := RecordQC(items[i], line.QtyPassed, line.QtyRejected, line.Notes)
		if err != nil {
			return nil, err
		}
		out[i] = updated
	}
	return out, nil
}

// Totals agrega las cuatro cantidades de todas las líneas.
// CompletionPct = round(100 * aprobada / planificada), 0 si no hay plan.
type Totals struct {
	TotalPlan     decimal.Decimal
	TotalReceived decimal.Decimal
	TotalPassed   decimal.Decimal
	TotalRejected decimal.Decimal
	CompletionPct int
}

// Aggregate suma plan/recibida/aprobada/rechazada para resúmenes y porcentaje
// de avance. Proyección de solo lectura, recalculable en cualquier momento.
func Aggregate(items []entity.GoodsReceiptItem) Totals {
	t := Totals{
		TotalPlan:     decimal.Zero,
		TotalReceived: decimal.Zero,
		TotalPassed:   decimal.Zero,
		TotalRejected: decimal.Zero,
	}
	for i := range items {
		t.TotalPlan = t.TotalPlan.Add(items[i].QtyPlan)
		t.TotalReceived = t.TotalReceived.Add(items[i].QtyReceived)
		t.TotalPassed = t.TotalPassed.Add(items[i].QtyPassed)
		t.TotalRejected = t.TotalRejected.Add(items[i].QtyRejected)
	}
	if t.TotalPlan.GreaterThan(decimal.Zero) {
		pct := t.TotalPassed.Mul(oneHundred).Div(t.TotalPlan).Round(0)
		t.CompletionPct = int(pct.IntPart())
	}
	return t
}

func validateArrival(item entity.GoodsReceiptItem, qtyReceived decimal.Decimal) *ItemViolation {
	if qtyReceived.LessThan(decimal.Zero) {
		return &ItemViolation{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Reason:    "cantidad recibida negativa",
		}
	}
	return nil
}

func validateQC(item entity.GoodsReceiptItem, qtyPassed, qtyRejected decimal.Decimal) *ItemViolation {
	if qtyPassed.LessThan(decimal.Zero) {
		return &ItemViolation{ItemID: item.ID, ProductID: item.ProductID, Reason: "cantidad aprobada negativa"}
	}
	if qtyRejected.LessThan(decimal.Zero) {
		return &ItemViolation{ItemID: item.ID, ProductID: item.ProductID, Reason: "cantidad rechazada negativa"}
	}
	diff := qtyPassed.Add(qtyRejected).Sub(item.QtyReceived).Abs()
	if diff.GreaterThan(qtyTolerance) {
		return &ItemViolation{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Reason: "aprobada " + qtyPassed.String() + " + rechazada " + qtyRejected.String() +
				" no suma la recibida " + item.QtyReceived.String(),
		}
	}
	return nil
}

// indexArrival arma el índice línea→lote y acumula violaciones por referencias
// a líneas inexistentes o duplicadas.
func indexArrival(items []entity.GoodsReceiptItem, lines []ArrivalLine) (map[string]ArrivalLine, []ItemViolation) {
	known := make(map[string]bool, len(items))
	for i := range items {
		known[items[i].ID] = true
	}
	byItem := make(map[string]ArrivalLine, len(lines))
	var violations []ItemViolation
	for _, line := range lines {
		if !known[line.ItemID] {
			violations = append(violations, ItemViolation{ItemID: line.ItemID, Reason: "línea no pertenece al documento"})
			continue
		}
		if _, dup := byItem[line.ItemID]; dup {
			violations = append(violations, ItemViolation{ItemID: line.ItemID, Reason: "línea repetida en el lote"})
			continue
		}
		byItem[line.ItemID] = line
	}
	return byItem, violations
}

func indexQC(items []entity.GoodsReceiptItem, lines []QCLine) (map[string]QCLine, []ItemViolation) {
	known := make(map[string]bool, len(items))
	for i := range items {
		known[items[i].ID] = true
	}
	byItem := make(map[string]QCLine, len(lines))
	var violations []ItemViolation
	for _, line := range lines {
		if !known[line.ItemID] {
			violations = append(violations, ItemViolation{ItemID: line.ItemID, Reason: "línea no pertenece al documento"})
			continue
		}
		if _, dup := byItem[line.ItemID]; dup {
			violations = append(violations, ItemViolation{ItemID: line.ItemID, Reason: "línea repetida en el lote"})
			continue
		}
		byItem[line.ItemID] = line
	}
	return byItem, violations
}
