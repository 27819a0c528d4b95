package receiving

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
)

// EvalQC deriva el estado QC de una línea a partir de (aprobada, rechazada).
// Se evalúa solo después de registrar la inspección, cuando ambas cantidades
// son conocidas. Función pura y total: todo par mapea exactamente a un estado.
func EvalQC(qtyPassed, qtyRejected decimal.Decimal) string {
	switch {
	case qtyRejected.IsZero():
		return entity.QCStatusPassed
	case qtyPassed.IsZero():
		return entity.QCStatusRejected
	default:
		return entity.QCStatusPartial
	}
}

// InitialQC es el estado de la línea antes de cualquier inspección:
// ARRIVED si ya se registró llegada, PENDING si no.
func InitialQC(received bool) string {
	if received {
		return entity.QCStatusArrived
	}
	return entity.QCStatusPending
}
