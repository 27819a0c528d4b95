package receiving_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
)

func inspected(id string, plan, received, passed, rejected float64) entity.GoodsReceiptItem {
	it := item(id, plan, received, "")
	it.QtyPassed = d(passed)
	it.QtyRejected = d(rejected)
	it.QCStatus = receiving.EvalQC(it.QtyPassed, it.QtyRejected)
	it.POItemID = "po-item-" + id
	return it
}

func TestApprove_SinFaltanteNoHayHijo(t *testing.T) {
	// Escenario A: plan 100, recibida 100, aprobada 100 → sin hijo, avance 100%.
	r := draftReceipt(inspected("a", 100, 100, 100, 0))
	r.Status = entity.ReceiptStatusPassed

	updated, result, err := receiving.Approve(r)

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusCompleted, updated.Status)
	assert.Nil(t, result.Child)
	assert.Equal(t, 100, result.Totals.CompletionPct)
	assert.True(t, result.Lines[0].Shortfall.IsZero())
}

func TestApprove_FaltanteGeneraHijo(t *testing.T) {
	// Escenario B: plan 100, recibida 60 → hijo con plan 40.
	r := draftReceipt(inspected("a", 100, 60, 60, 0))
	r.Status = entity.ReceiptStatusPassed

	updated, result, err := receiving.Approve(r)

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusCompleted, updated.Status)
	require.NotNil(t, result.Child)
	assert.Equal(t, "po-1", result.Child.PurchaseOrderID)
	assert.Equal(t, "wh-1", result.Child.WarehouseID)
	assert.Equal(t, "gr-1", result.Child.ParentID)
	require.Len(t, result.Child.Items, 1)
	assert.True(t, result.Child.Items[0].QtyPlan.Equal(d(40)))
	assert.Equal(t, "po-item-a", result.Child.Items[0].POItemID)
}

func TestApprove_SoloLineasConFaltanteVanAlHijo(t *testing.T) {
	r := draftReceipt(
		inspected("a", 100, 100, 100, 0),
		inspected("b", 80, 30, 25, 5),
		inspected("c", 10, 10, 0, 10),
	)
	r.Status = entity.ReceiptStatusPassed

	_, result, err := receiving.Approve(r)

	require.NoError(t, err)
	require.NotNil(t, result.Child)
	require.Len(t, result.Child.Items, 1)
	assert.Equal(t, "prod-b", result.Child.Items[0].ProductID)
	assert.True(t, result.Child.Items[0].QtyPlan.Equal(d(50)))
}

func TestReconcile_ConservacionDeLaParticion(t *testing.T) {
	// Para cada línea: cumplida + faltante == planificada. La partición no crea
	// ni destruye unidades, incluso con sobre-entrega.
	r := draftReceipt(
		inspected("a", 100, 60, 60, 0),
		inspected("b", 50, 50, 40, 10),
		inspected("c", 20, 35, 35, 0), // sobre-entrega
		inspected("d", 10, 0, 0, 0),
	)

	result := receiving.Reconcile(r)

	for _, line := range result.Lines {
		sum := line.Fulfilled.Add(line.Shortfall)
		assert.True(t, sum.Equal(line.QtyPlan),
			"línea %s: cumplida %s + faltante %s debe igualar plan %s",
			line.ItemID, line.Fulfilled, line.Shortfall, line.QtyPlan)
	}
}

func TestReconcile_SobreEntregaComoVarianza(t *testing.T) {
	// Decisión sobre la pregunta abierta: el exceso se reporta como varianza,
	// no se rechaza ni se traslada a ningún documento.
	r := draftReceipt(inspected("a", 20, 35, 35, 0))

	result := receiving.Reconcile(r)

	require.Len(t, result.Lines, 1)
	assert.True(t, result.Lines[0].Excess.Equal(d(15)))
	assert.True(t, result.Lines[0].Shortfall.IsZero())
	assert.True(t, result.Lines[0].Fulfilled.Equal(d(20)))
	assert.Nil(t, result.Child)
}

func TestReconcile_Determinista(t *testing.T) {
	r := draftReceipt(inspected("a", 100, 60, 55, 5), inspected("b", 40, 0, 0, 0))

	first := receiving.Reconcile(r)
	second := receiving.Reconcile(r)

	assert.Equal(t, first, second)
	// El snapshot no se muta
	assert.Equal(t, entity.ReceiptStatusDraft, r.Status)
}

func TestApprove_ElegibilidadPorLineaNoPorEnum(t *testing.T) {
	// El enum grueso del documento puede seguir en DRAFT; la elegibilidad la
	// dan los estados QC por línea.
	r := draftReceipt(inspected("a", 100, 100, 100, 0))
	require.Equal(t, entity.ReceiptStatusDraft, r.Status)

	updated, _, err := receiving.Approve(r)

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusCompleted, updated.Status)
}

func TestApprove_LineaPendienteRechazada(t *testing.T) {
	// Escenario E: una línea PASSED y otra PENDING → InvalidStateError.
	r := draftReceipt(
		inspected("a", 100, 100, 100, 0),
		item("b", 50, 0, entity.QCStatusPending),
	)

	after, _, err := receiving.Approve(r)

	var sErr *receiving.InvalidStateError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, r, after, "el documento queda sin cambios")
}

func TestApprove_SinLineas(t *testing.T) {
	r := draftReceipt()

	_, _, err := receiving.Approve(r)

	var sErr *receiving.InvalidStateError
	require.ErrorAs(t, err, &sErr)
}

func TestApprove_RechazoTotalSigueSiendoAprobable(t *testing.T) {
	// REJECTED es estado terminal: el documento puede aprobarse y el faltante
	// se limita a lo no recibido (lo rechazado sí se recibió).
	r := draftReceipt(inspected("a", 100, 100, 0, 100))

	_, result, err := receiving.Approve(r)

	require.NoError(t, err)
	assert.Nil(t, result.Child)
	assert.True(t, result.Totals.TotalRejected.Equal(decimal.NewFromInt(100)))
}
