package receiving

import "github.com/jhoicas/Recepciones-api/internal/domain/entity"

// Acciones que el flujo puede ofrecer como siguiente paso único.
const (
	ActionNone        = "NONE"
	ActionMarkArrived = "MARK_ARRIVED"
	ActionQCCheck     = "QC_CHECK"
	ActionApprove     = "APPROVE"
)

// NextAction decide la única acción válida ahora mismo a partir del documento,
// la bodega y la orden de compra. Reglas en orden de precedencia, la primera
// aplicable gana. Pura y total, sin memoria entre evaluaciones: se recalcula
// en cada petición.
//
// Sobre documentos terminales la elegibilidad por línea ya no importa: el
// documento no admite acciones.
func NextAction(r entity.GoodsReceipt, wh *entity.Warehouse, po *entity.PurchaseOrder) string {
	if r.IsTerminal() {
		return ActionNone
	}

	// Traslados: la bodega destino espera hasta que el origen despache.
	if r.SourceType == entity.ReceiptSourceTransfer {
		if r.TransferStatus == entity.TransferStatusInTransit {
			return ActionMarkArrived
		}
		if r.TransferStatus != entity.TransferStatusReceived {
			return ActionNone
		}
	}

	// Bodega WIP: bloqueada hasta verificar el informe de obra de cada línea
	// de la orden vinculada.
	if wh != nil && wh.IsWIP && pendingFieldReport(r, po) {
		return ActionNone
	}

	if len(r.Items) == 0 {
		return ActionNone
	}

	if allQCStatus(r.Items, entity.QCStatusPending) {
		return ActionMarkArrived
	}
	if allQCStatus(r.Items, entity.QCStatusArrived) {
		return ActionQCCheck
	}
	if allTerminalQC(r.Items) {
		return ActionApprove
	}
	return ActionNone
}

// pendingFieldReport indica si alguna línea vinculada a la orden de compra no
// tiene su informe de obra verificado. Líneas sin vínculo resoluble cuentan
// como no verificadas.
func pendingFieldReport(r entity.GoodsReceipt, po *entity.PurchaseOrder) bool {
	if r.PurchaseOrderID == "" {
		return false
	}
	if po == nil {
		return true
	}
	for i := range r.Items {
		if r.Items[i].POItemID == "" {
			return true
		}
		line := po.ItemByID(r.Items[i].POItemID)
		if line == nil || !line.FieldReportVerified {
			return true
		}
	}
	return false
}

func allQCStatus(items []entity.GoodsReceiptItem, status string) bool {
	for i := range items {
		if items[i].QCStatus != status {
			return false
		}
	}
	return true
}

func allTerminalQC(items []entity.GoodsReceiptItem) bool {
	for i := range items {
		if !items[i].HasTerminalQC() {
			return false
		}
	}
	return true
}
