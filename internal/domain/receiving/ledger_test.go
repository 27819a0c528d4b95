package receiving_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func item(id string, plan, received float64, qcStatus string) entity.GoodsReceiptItem {
	return entity.GoodsReceiptItem{
		ID:          id,
		ReceiptID:   "gr-1",
		ProductID:   "prod-" + id,
		Unit:        "und",
		QtyPlan:     d(plan),
		QtyReceived: d(received),
		QCStatus:    qcStatus,
	}
}

func TestRecordArrival_FijaCantidadSinTocarQC(t *testing.T) {
	it := item("a", 100, 0, entity.QCStatusPending)
	it.QCNotes = "nota previa"

	updated, err := receiving.RecordArrival(it, d(80))
	require.NoError(t, err)

	assert.True(t, updated.QtyReceived.Equal(d(80)))
	assert.Equal(t, entity.QCStatusArrived, updated.QCStatus)
	assert.True(t, updated.QtyPassed.IsZero(), "la llegada no toca cantidades QC")
	assert.True(t, updated.QtyRejected.IsZero())
	// El snapshot original queda intacto
	assert.True(t, it.QtyReceived.IsZero())
}

func TestRecordArrival_NegativaRechazada(t *testing.T) {
	it := item("a", 100, 0, entity.QCStatusPending)

	_, err := receiving.RecordArrival(it, d(-1))

	var vErr *receiving.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Violations, 1)
	assert.Equal(t, "a", vErr.Violations[0].ItemID)
}

func TestRecordArrival_SobreEntregaRepresentable(t *testing.T) {
	// Recibir más de lo planificado no es error aquí; la reconciliación lo
	// reporta como varianza aguas abajo.
	it := item("a", 100, 0, entity.QCStatusPending)
	updated, err := receiving.RecordArrival(it, d(130))
	require.NoError(t, err)
	assert.True(t, updated.QtyReceived.Equal(d(130)))
}

func TestRecordQC_Conservacion(t *testing.T) {
	cases := []struct {
		name     string
		passed   float64
		rejected float64
		ok       bool
	}{
		{"exacta", 30, 20, true},
		{"dentro de tolerancia", 30.00005, 19.99999, true},
		{"fuera de tolerancia", 30, 25, false}, // Escenario C: 30+25=55≠50
		{"aprobada negativa", -1, 51, false},
		{"rechazada negativa", 51, -1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := item("a", 100, 50, entity.QCStatusArrived)
			updated, err := receiving.RecordQC(it, d(tc.passed), d(tc.rejected), "")
			if tc.ok {
				require.NoError(t, err)
				assert.True(t, updated.QtyPassed.Equal(d(tc.passed)))
				return
			}
			var vErr *receiving.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "a", vErr.Violations[0].ItemID, "el error debe nombrar la línea ofensiva")
		})
	}
}

func TestRecordQC_EstadoDerivado(t *testing.T) {
	// Escenario D: recibida 50, aprobada 20, rechazada 30 → PARTIAL.
	it := item("a", 100, 50, entity.QCStatusArrived)
	updated, err := receiving.RecordQC(it, d(20), d(30), "daños de transporte")
	require.NoError(t, err)
	assert.Equal(t, entity.QCStatusPartial, updated.QCStatus)
	assert.Equal(t, "daños de transporte", updated.QCNotes)
}

func TestApplyArrival_TodoONada(t *testing.T) {
	items := []entity.GoodsReceiptItem{
		item("a", 100, 0, entity.QCStatusPending),
		item("b", 50, 0, entity.QCStatusPending),
	}
	lines := []receiving.ArrivalLine{
		{ItemID: "a", QtyReceived: d(100)},
		{ItemID: "b", QtyReceived: d(-5)},
	}

	out, err := receiving.ApplyArrival(items, lines)

	require.Error(t, err)
	assert.Nil(t, out)
	var vErr *receiving.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Violations, 1)
	assert.Equal(t, "b", vErr.Violations[0].ItemID)
	// Ninguna línea quedó parcialmente aplicada
	assert.True(t, items[0].QtyReceived.IsZero())
	assert.True(t, items[1].QtyReceived.IsZero())
}

func TestApplyArrival_LineaFaltanteEnElLote(t *testing.T) {
	items := []entity.GoodsReceiptItem{
		item("a", 100, 0, entity.QCStatusPending),
		item("b", 50, 0, entity.QCStatusPending),
	}
	lines := []receiving.ArrivalLine{{ItemID: "a", QtyReceived: d(100)}}

	_, err := receiving.ApplyArrival(items, lines)

	var vErr *receiving.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "b", vErr.Violations[0].ItemID)
}

func TestApplyArrival_LineaDesconocidaYRepetida(t *testing.T) {
	items := []entity.GoodsReceiptItem{item("a", 100, 0, entity.QCStatusPending)}
	lines := []receiving.ArrivalLine{
		{ItemID: "a", QtyReceived: d(10)},
		{ItemID: "a", QtyReceived: d(20)},
		{ItemID: "zz", QtyReceived: d(5)},
	}

	_, err := receiving.ApplyArrival(items, lines)

	var vErr *receiving.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 2)
}

func TestApplyQC_TodoONada(t *testing.T) {
	// Propiedad de conservación: un lote con una sola línea mala deja todas
	// las líneas sin cambios.
	items := []entity.GoodsReceiptItem{
		item("a", 100, 50, entity.QCStatusArrived),
		item("b", 50, 50, entity.QCStatusArrived),
	}
	lines := []receiving.QCLine{
		{ItemID: "a", QtyPassed: d(30), QtyRejected: d(20)},
		{ItemID: "b", QtyPassed: d(30), QtyRejected: d(25)}, // 55 ≠ 50
	}

	out, err := receiving.ApplyQC(items, lines)

	require.Error(t, err)
	assert.Nil(t, out)
	var vErr *receiving.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Violations, 1)
	assert.Equal(t, "b", vErr.Violations[0].ItemID)
	assert.True(t, items[0].QtyPassed.IsZero())
	assert.True(t, items[1].QtyPassed.IsZero())
}

func TestApplyQC_LoteValido(t *testing.T) {
	items := []entity.GoodsReceiptItem{
		item("a", 100, 50, entity.QCStatusArrived),
		item("b", 50, 50, entity.QCStatusArrived),
	}
	lines := []receiving.QCLine{
		{ItemID: "a", QtyPassed: d(50), QtyRejected: d(0)},
		{ItemID: "b", QtyPassed: d(0), QtyRejected: d(50), Notes: "lote vencido"},
	}

	out, err := receiving.ApplyQC(items, lines)

	require.NoError(t, err)
	assert.Equal(t, entity.QCStatusPassed, out[0].QCStatus)
	assert.Equal(t, entity.QCStatusRejected, out[1].QCStatus)
	for _, it := range out {
		sum := it.QtyPassed.Add(it.QtyRejected)
		assert.True(t, sum.Sub(it.QtyReceived).Abs().LessThanOrEqual(decimal.New(1, -4)),
			"conservación: aprobada + rechazada == recibida")
	}
}

func TestAggregate(t *testing.T) {
	a := item("a", 100, 60, entity.QCStatusPassed)
	a.QtyPassed = d(60)
	b := item("b", 100, 100, entity.QCStatusPartial)
	b.QtyPassed = d(90)
	b.QtyRejected = d(10)

	totals := receiving.Aggregate([]entity.GoodsReceiptItem{a, b})

	assert.True(t, totals.TotalPlan.Equal(d(200)))
	assert.True(t, totals.TotalReceived.Equal(d(160)))
	assert.True(t, totals.TotalPassed.Equal(d(150)))
	assert.True(t, totals.TotalRejected.Equal(d(10)))
	assert.Equal(t, 75, totals.CompletionPct)
}

func TestAggregate_SinPlan(t *testing.T) {
	totals := receiving.Aggregate(nil)
	assert.Equal(t, 0, totals.CompletionPct)
	assert.True(t, totals.TotalPlan.IsZero())
}

func TestValidationError_EsWorkflowError(t *testing.T) {
	var err error = &receiving.ValidationError{}
	var wfErr receiving.WorkflowError
	assert.True(t, errors.As(err, &wfErr))
}
