package receiving

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
)

// transitions es el grafo de estados del documento. Sin retrocesos; CANCELLED
// solo es alcanzable mientras no hay aprobación que afecte stock.
var transitions = map[string][]string{
	entity.ReceiptStatusDraft:   {entity.ReceiptStatusArrived, entity.ReceiptStatusCancelled},
	entity.ReceiptStatusArrived: {entity.ReceiptStatusPassed, entity.ReceiptStatusCancelled},
	entity.ReceiptStatusPassed:  {entity.ReceiptStatusCompleted},
}

// CanTransition indica si el grafo permite pasar de un estado a otro.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ensureMutable rechaza cualquier mutación sobre documentos terminales.
func ensureMutable(r entity.GoodsReceipt, action string) error {
	if r.IsTerminal() {
		return &InvalidStateError{
			Action: action,
			Status: r.Status,
			Reason: "el documento es terminal y ya no admite cambios",
		}
	}
	return nil
}

// ArrivalInput es el contenido de un registro de llegada.
type ArrivalInput struct {
	ReceivedDate  time.Time
	DeliveryNote  string
	VehicleNumber string
	DriverName    string
	Lines         []ArrivalLine
}

// MarkArrived aplica la llegada sobre una copia del documento y lo mueve a
// ARRIVED. El gate (NextAction) debe permitir la llegada y el registro de cada
// línea debe ser válido; de lo contrario la copia original queda intacta.
func MarkArrived(r entity.GoodsReceipt, wh *entity.Warehouse, po *entity.PurchaseOrder, in ArrivalInput) (entity.GoodsReceipt, error) {
	if err := ensureMutable(r, "mark-arrived"); err != nil {
		return r, err
	}
	if next := NextAction(r, wh, po); next != ActionMarkArrived {
		return r, &InvalidStateError{
			Action: "mark-arrived",
			Status: r.Status,
			Reason: "el flujo no ofrece registro de llegada en este punto",
		}
	}

	items, err := ApplyArrival(r.Items, in.Lines)
	if err != nil {
		return r, err
	}

	r.Items = items
	r.Status = entity.ReceiptStatusArrived
	received := in.ReceivedDate
	r.ReceivedDate = &received
	if in.DeliveryNote != "" {
		r.DeliveryNote = in.DeliveryNote
	}
	r.VehicleNumber = in.VehicleNumber
	r.DriverName = in.DriverName
	if r.SourceType == entity.ReceiptSourceTransfer {
		r.TransferStatus = entity.TransferStatusReceived
	}
	return r, nil
}

// CheckQC aplica un lote de inspección sobre una copia del documento y lo
// mueve a PASSED. Exige que toda línea tenga llegada registrada.
func CheckQC(r entity.GoodsReceipt, lines []QCLine) (entity.GoodsReceipt, error) {
	if err := ensureMutable(r, "qc-check"); err != nil {
		return r, err
	}
	if len(r.Items) == 0 {
		return r, &InvalidStateError{Action: "qc-check", Status: r.Status, Reason: "el documento no tiene líneas"}
	}
	for i := range r.Items {
		if r.Items[i].QCStatus == entity.QCStatusPending {
			return r, &InvalidStateError{
				Action: "qc-check",
				Status: r.Status,
				Reason: "la línea " + r.Items[i].ID + " no tiene llegada registrada",
			}
		}
	}

	items, err := ApplyQC(r.Items, lines)
	if err != nil {
		return r, err
	}
	r.Items = items
	r.Status = entity.ReceiptStatusPassed
	return r, nil
}

// PassAll es el atajo "aprobar todo": azúcar sobre CheckQC con
// aprobada = recibida y rechazada = 0 para cada línea. No es una ruta aparte.
func PassAll(r entity.GoodsReceipt) (entity.GoodsReceipt, error) {
	lines := make([]QCLine, len(r.Items))
	for i := range r.Items {
		lines[i] = QCLine{
			ItemID:      r.Items[i].ID,
			QtyPassed:   r.Items[i].QtyReceived,
			QtyRejected: decimal.Zero,
		}
	}
	return CheckQC(r, lines)
}

// Cancel anula el documento. Solo DRAFT o ARRIVED: después de una aprobación
// (o sobre otro terminal) la anulación es inválida.
func Cancel(r entity.GoodsReceipt) (entity.GoodsReceipt, error) {
	if err := ensureMutable(r, "cancel"); err != nil {
		return r, err
	}
	if !CanTransition(r.Status, entity.ReceiptStatusCancelled) {
		return r, &InvalidStateError{
			Action: "cancel",
			Status: r.Status,
			Reason: "solo se anula un documento en DRAFT o ARRIVED",
		}
	}
	r.Status = entity.ReceiptStatusCancelled
	return r, nil
}
