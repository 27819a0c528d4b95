package receiving_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
)

func verifiedPO(verified bool) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:     "po-1",
		Status: entity.POStatusApproved,
		Items: []entity.PurchaseOrderItem{
			{ID: "po-item-a", ProductID: "prod-a", FieldReportVerified: verified},
			{ID: "po-item-b", ProductID: "prod-b", FieldReportVerified: verified},
		},
	}
}

func linkedItem(id string, qcStatus string) entity.GoodsReceiptItem {
	it := item(id, 100, 0, qcStatus)
	it.POItemID = "po-item-" + id
	return it
}

func TestNextAction_Precedencia(t *testing.T) {
	normalWH := &entity.Warehouse{ID: "wh-1", Name: "Principal"}
	wipWH := &entity.Warehouse{ID: "wh-2", Name: "Obra Norte", IsWIP: true}

	cases := []struct {
		name     string
		receipt  func() entity.GoodsReceipt
		wh       *entity.Warehouse
		po       *entity.PurchaseOrder
		expected string
	}{
		{
			name: "traslado sin despachar bloquea",
			receipt: func() entity.GoodsReceipt {
				r := draftReceipt(linkedItem("a", entity.QCStatusPending))
				r.SourceType = entity.ReceiptSourceTransfer
				r.TransferStatus = entity.TransferStatusPending
				return r
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionNone,
		},
		{
			name: "traslado en transito ofrece llegada",
			receipt: func() entity.GoodsReceipt {
				r := draftReceipt(linkedItem("a", entity.QCStatusPending))
				r.SourceType = entity.ReceiptSourceTransfer
				r.TransferStatus = entity.TransferStatusInTransit
				return r
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionMarkArrived,
		},
		{
			name: "bodega WIP sin informe verificado bloquea",
			receipt: func() entity.GoodsReceipt {
				return draftReceipt(linkedItem("a", entity.QCStatusPending))
			},
			wh: wipWH, po: verifiedPO(false),
			expected: receiving.ActionNone,
		},
		{
			name: "bodega WIP con informes verificados sigue el flujo",
			receipt: func() entity.GoodsReceipt {
				return draftReceipt(linkedItem("a", entity.QCStatusPending))
			},
			wh: wipWH, po: verifiedPO(true),
			expected: receiving.ActionMarkArrived,
		},
		{
			name: "bodega WIP sin snapshot de orden bloquea",
			receipt: func() entity.GoodsReceipt {
				return draftReceipt(linkedItem("a", entity.QCStatusPending))
			},
			wh: wipWH, po: nil,
			expected: receiving.ActionNone,
		},
		{
			name: "todas pendientes ofrece llegada",
			receipt: func() entity.GoodsReceipt {
				return draftReceipt(linkedItem("a", entity.QCStatusPending), linkedItem("b", entity.QCStatusPending))
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionMarkArrived,
		},
		{
			name: "todas arribadas ofrece inspeccion",
			receipt: func() entity.GoodsReceipt {
				r := draftReceipt(linkedItem("a", entity.QCStatusArrived), linkedItem("b", entity.QCStatusArrived))
				r.Status = entity.ReceiptStatusArrived
				return r
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionQCCheck,
		},
		{
			name: "todas con QC terminal ofrece aprobacion",
			receipt: func() entity.GoodsReceipt {
				r := draftReceipt(
					linkedItem("a", entity.QCStatusPassed),
					linkedItem("b", entity.QCStatusPartial),
					linkedItem("c", entity.QCStatusRejected),
				)
				r.Status = entity.ReceiptStatusPassed
				return r
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionApprove,
		},
		{
			name: "QC terminal con enum en DRAFT tambien ofrece aprobacion",
			receipt: func() entity.GoodsReceipt {
				// La elegibilidad la gobierna el estado QC por línea, no el
				// enum grueso del documento.
				return draftReceipt(linkedItem("a", entity.QCStatusPassed))
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionApprove,
		},
		{
			name: "estados mezclados no ofrece nada",
			receipt: func() entity.GoodsReceipt {
				// Escenario E: una PASSED y una PENDING.
				return draftReceipt(linkedItem("a", entity.QCStatusPassed), linkedItem("b", entity.QCStatusPending))
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionNone,
		},
		{
			name: "sin lineas no ofrece nada",
			receipt: func() entity.GoodsReceipt {
				return draftReceipt()
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionNone,
		},
		{
			name: "documento completado no ofrece nada",
			receipt: func() entity.GoodsReceipt {
				r := draftReceipt(linkedItem("a", entity.QCStatusPassed))
				r.Status = entity.ReceiptStatusCompleted
				return r
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionNone,
		},
		{
			name: "documento anulado no ofrece nada",
			receipt: func() entity.GoodsReceipt {
				r := draftReceipt(linkedItem("a", entity.QCStatusPending))
				r.Status = entity.ReceiptStatusCancelled
				return r
			},
			wh: normalWH, po: verifiedPO(true),
			expected: receiving.ActionNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := receiving.NextAction(tc.receipt(), tc.wh, tc.po)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNextAction_SinMemoria(t *testing.T) {
	// El gate se reevalúa en cada petición; la misma entrada produce siempre
	// la misma salida.
	r := draftReceipt(linkedItem("a", entity.QCStatusPending))
	wh := &entity.Warehouse{ID: "wh-1"}
	po := verifiedPO(true)

	first := receiving.NextAction(r, wh, po)
	second := receiving.NextAction(r, wh, po)

	assert.Equal(t, first, second)
}
