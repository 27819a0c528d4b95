package receiving

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recepciones-api/internal/application/dto"
	"github.com/jhoicas/Recepciones-api/internal/domain"
	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
)

// newReceiptNumber genera el consecutivo visible del documento. El sufijo
// aleatorio evita coordinar una secuencia en base de datos.
func newReceiptNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("GR-%s-%s", now.Format("20060102"), suffix)
}

// CreateFromPO crea una recepción DRAFT a partir de una orden de compra
// aprobada. Sin items explícitos se planifican todas las líneas de la orden.
func (uc *WorkflowUseCase) CreateFromPO(ctx context.Context, userID string, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	po, err := uc.poRepo.GetByID(in.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Status != entity.POStatusApproved {
		return nil, &receiving.InvalidStateError{
			Action: "create",
			Status: po.Status,
			Reason: "la orden de compra no está aprobada",
		}
	}

	now := time.Now()
	receipt := &entity.GoodsReceipt{
		ID:              uuid.NewString(),
		Number:          newReceiptNumber(now),
		Status:          entity.ReceiptStatusDraft,
		SourceType:      in.SourceType,
		ExpectedDate:    in.ExpectedDate,
		Notes:           in.Notes,
		WarehouseID:     po.WarehouseID,
		PurchaseOrderID: po.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       userID,
	}
	if receipt.SourceType == "" {
		receipt.SourceType = entity.ReceiptSourcePurchase
	}
	if receipt.SourceType == entity.ReceiptSourceTransfer {
		receipt.TransferStatus = entity.TransferStatusPending
	}

	if len(in.Items) == 0 {
		for i := range po.Items {
			receipt.Items = append(receipt.Items, newDraftItem(receipt.ID, &po.Items[i], po.Items[i].Quantity))
		}
	} else {
		var violations []receiving.ItemViolation
		for _, req := range in.Items {
			line := po.ItemByID(req.POItemID)
			if line == nil {
				violations = append(violations, receiving.ItemViolation{
					ItemID: req.POItemID,
					Reason: "la línea no pertenece a la orden de compra",
				})
				continue
			}
			plan := req.QtyPlan
			if plan.IsZero() {
				plan = line.Quantity
			}
			if plan.IsNegative() {
				violations = append(violations, receiving.ItemViolation{
					ItemID:    req.POItemID,
					ProductID: line.ProductID,
					Reason:    "la cantidad planificada no puede ser negativa",
				})
				continue
			}
			receipt.Items = append(receipt.Items, newDraftItem(receipt.ID, line, plan))
		}
		if len(violations) > 0 {
			return nil, &receiving.ValidationError{Violations: violations}
		}
	}

	if err := uc.receiptRepo.Create(receipt); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("receipt_id", receipt.ID).
		Str("number", receipt.Number).
		Str("purchase_order_id", po.ID).
		Msg("recepción creada")
	resp := toReceiptResponse(receipt)
	return &resp, nil
}

func newDraftItem(receiptID string, line *entity.PurchaseOrderItem, plan decimal.Decimal) entity.GoodsReceiptItem {
	return entity.GoodsReceiptItem{
		ID:        uuid.NewString(),
		ReceiptID: receiptID,
		ProductID: line.ProductID,
		Unit:      line.Unit,
		QtyPlan:   plan,
		QCStatus:  entity.QCStatusPending,
		POItemID:  line.ID,
	}
}

// buildChildReceipt materializa el documento hijo que la reconciliación
// especificó para el faltante.
func buildChildReceipt(spec *receiving.ChildSpec, userID string, now time.Time) *entity.GoodsReceipt {
	child := &entity.GoodsReceipt{
		ID:              uuid.NewString(),
		Number:          newReceiptNumber(now),
		Status:          entity.ReceiptStatusDraft,
		SourceType:      spec.SourceType,
		WarehouseID:     spec.WarehouseID,
		PurchaseOrderID: spec.PurchaseOrderID,
		ParentID:        spec.ParentID,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       userID,
	}
	if child.SourceType == entity.ReceiptSourceTransfer {
		child.TransferStatus = entity.TransferStatusPending
	}
	for _, it := range spec.Items {
		child.Items = append(child.Items, entity.GoodsReceiptItem{
			ID:        uuid.NewString(),
			ReceiptID: child.ID,
			ProductID: it.ProductID,
			Unit:      it.Unit,
			QtyPlan:   it.QtyPlan,
			QCStatus:  entity.QCStatusPending,
			POItemID:  it.POItemID,
		})
	}
	return child
}
