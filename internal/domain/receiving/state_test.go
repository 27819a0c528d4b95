package receiving_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
)

func draftReceipt(items ...entity.GoodsReceiptItem) entity.GoodsReceipt {
	return entity.GoodsReceipt{
		ID:              "gr-1",
		Number:          "GR-20250901-0001",
		Status:          entity.ReceiptStatusDraft,
		SourceType:      entity.ReceiptSourcePurchase,
		WarehouseID:     "wh-1",
		PurchaseOrderID: "po-1",
		Items:           items,
	}
}

func arrivalInput(lines ...receiving.ArrivalLine) receiving.ArrivalInput {
	return receiving.ArrivalInput{
		ReceivedDate:  time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		DeliveryNote:  "REM-7781",
		VehicleNumber: "XYZ-123",
		DriverName:    "Carlos Pérez",
		Lines:         lines,
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, receiving.CanTransition(entity.ReceiptStatusDraft, entity.ReceiptStatusArrived))
	assert.True(t, receiving.CanTransition(entity.ReceiptStatusArrived, entity.ReceiptStatusPassed))
	assert.True(t, receiving.CanTransition(entity.ReceiptStatusPassed, entity.ReceiptStatusCompleted))
	assert.True(t, receiving.CanTransition(entity.ReceiptStatusDraft, entity.ReceiptStatusCancelled))
	assert.True(t, receiving.CanTransition(entity.ReceiptStatusArrived, entity.ReceiptStatusCancelled))

	// Sin retrocesos ni salidas desde terminales
	assert.False(t, receiving.CanTransition(entity.ReceiptStatusArrived, entity.ReceiptStatusDraft))
	assert.False(t, receiving.CanTransition(entity.ReceiptStatusPassed, entity.ReceiptStatusCancelled))
	assert.False(t, receiving.CanTransition(entity.ReceiptStatusCompleted, entity.ReceiptStatusCancelled))
	assert.False(t, receiving.CanTransition(entity.ReceiptStatusCancelled, entity.ReceiptStatusDraft))
}

func TestMarkArrived_Flujo(t *testing.T) {
	r := draftReceipt(item("a", 100, 0, entity.QCStatusPending))

	updated, err := receiving.MarkArrived(r, nil, nil, arrivalInput(
		receiving.ArrivalLine{ItemID: "a", QtyReceived: d(100)},
	))

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusArrived, updated.Status)
	require.NotNil(t, updated.ReceivedDate)
	assert.Equal(t, "REM-7781", updated.DeliveryNote)
	assert.Equal(t, "Carlos Pérez", updated.DriverName)
	assert.True(t, updated.Items[0].QtyReceived.Equal(d(100)))
	// El snapshot de entrada no se muta
	assert.Equal(t, entity.ReceiptStatusDraft, r.Status)
	assert.True(t, r.Items[0].QtyReceived.IsZero())
}

func TestMarkArrived_LoteInvalidoNoCambiaNada(t *testing.T) {
	r := draftReceipt(
		item("a", 100, 0, entity.QCStatusPending),
		item("b", 50, 0, entity.QCStatusPending),
	)

	updated, err := receiving.MarkArrived(r, nil, nil, arrivalInput(
		receiving.ArrivalLine{ItemID: "a", QtyReceived: d(100)},
		receiving.ArrivalLine{ItemID: "b", QtyReceived: d(-2)},
	))

	var vErr *receiving.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, entity.ReceiptStatusDraft, updated.Status)
	assert.True(t, updated.Items[0].QtyReceived.IsZero())
}

func TestMarkArrived_SinLineasNoSaleDeDraft(t *testing.T) {
	r := draftReceipt()

	_, err := receiving.MarkArrived(r, nil, nil, arrivalInput())

	var sErr *receiving.InvalidStateError
	require.ErrorAs(t, err, &sErr)
}

func TestMarkArrived_TrasladoRecibido(t *testing.T) {
	r := draftReceipt(item("a", 10, 0, entity.QCStatusPending))
	r.SourceType = entity.ReceiptSourceTransfer
	r.TransferStatus = entity.TransferStatusInTransit

	updated, err := receiving.MarkArrived(r, nil, nil, arrivalInput(
		receiving.ArrivalLine{ItemID: "a", QtyReceived: d(10)},
	))

	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, updated.TransferStatus)
}

func TestMarkArrived_TrasladoNoDespachado(t *testing.T) {
	r := draftReceipt(item("a", 10, 0, entity.QCStatusPending))
	r.SourceType = entity.ReceiptSourceTransfer
	r.TransferStatus = entity.TransferStatusPending

	_, err := receiving.MarkArrived(r, nil, nil, arrivalInput(
		receiving.ArrivalLine{ItemID: "a", QtyReceived: d(10)},
	))

	var sErr *receiving.InvalidStateError
	require.ErrorAs(t, err, &sErr)
}

func TestCheckQC_Flujo(t *testing.T) {
	r := draftReceipt(item("a", 100, 50, entity.QCStatusArrived))
	r.Status = entity.ReceiptStatusArrived

	updated, err := receiving.CheckQC(r, []receiving.QCLine{
		{ItemID: "a", QtyPassed: d(20), QtyRejected: d(30)},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusPassed, updated.Status)
	assert.Equal(t, entity.QCStatusPartial, updated.Items[0].QCStatus)
}

func TestCheckQC_LineaSinLlegada(t *testing.T) {
	r := draftReceipt(
		item("a", 100, 50, entity.QCStatusArrived),
		item("b", 50, 0, entity.QCStatusPending),
	)
	r.Status = entity.ReceiptStatusArrived

	_, err := receiving.CheckQC(r, []receiving.QCLine{
		{ItemID: "a", QtyPassed: d(50), QtyRejected: d(0)},
		{ItemID: "b", QtyPassed: d(0), QtyRejected: d(0)},
	})

	var sErr *receiving.InvalidStateError
	require.ErrorAs(t, err, &sErr)
}

func TestPassAll_EsAzucarSobreCheckQC(t *testing.T) {
	r := draftReceipt(
		item("a", 100, 80, entity.QCStatusArrived),
		item("b", 50, 50, entity.QCStatusArrived),
	)
	r.Status = entity.ReceiptStatusArrived

	updated, err := receiving.PassAll(r)

	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusPassed, updated.Status)
	for _, it := range updated.Items {
		assert.Equal(t, entity.QCStatusPassed, it.QCStatus)
		assert.True(t, it.QtyPassed.Equal(it.QtyReceived))
		assert.True(t, it.QtyRejected.IsZero())
	}
}

func TestCancel(t *testing.T) {
	r := draftReceipt(item("a", 10, 0, entity.QCStatusPending))

	cancelled, err := receiving.Cancel(r)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusCancelled, cancelled.Status)

	arrived := draftReceipt(item("a", 10, 10, entity.QCStatusArrived))
	arrived.Status = entity.ReceiptStatusArrived
	cancelled, err = receiving.Cancel(arrived)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptStatusCancelled, cancelled.Status)
}

func TestCancel_NoDespuesDeAprobar(t *testing.T) {
	r := draftReceipt(item("a", 10, 10, entity.QCStatusPassed))
	r.Status = entity.ReceiptStatusPassed

	_, err := receiving.Cancel(r)
	var sErr *receiving.InvalidStateError
	require.ErrorAs(t, err, &sErr)

	r.Status = entity.ReceiptStatusCompleted
	_, err = receiving.Cancel(r)
	require.ErrorAs(t, err, &sErr)
}

func TestIrreversibilidad_TerminalRechazaTodo(t *testing.T) {
	for _, status := range []string{entity.ReceiptStatusCompleted, entity.ReceiptStatusCancelled} {
		r := draftReceipt(item("a", 100, 100, entity.QCStatusPassed))
		r.Status = status

		var sErr *receiving.InvalidStateError

		after, err := receiving.MarkArrived(r, nil, nil, arrivalInput(
			receiving.ArrivalLine{ItemID: "a", QtyReceived: decimal.NewFromInt(1)},
		))
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, r, after, "el documento no cambia")

		after, err = receiving.CheckQC(r, []receiving.QCLine{{ItemID: "a", QtyPassed: d(100)}})
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, r, after)

		after, _, err = receiving.Approve(r)
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, r, after)

		after, err = receiving.Cancel(r)
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, r, after)
	}
}
