package receiving

import (
	"context"
	"time"

	"github.com/jhoicas/Recepciones-api/internal/application/dto"
	"github.com/jhoicas/Recepciones-api/internal/domain"
	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
	"github.com/jhoicas/Recepciones-api/internal/domain/repository"
	"github.com/jhoicas/Recepciones-api/pkg/logger"
)

// lockTTL cubre con holgura la transacción de cualquier acción del flujo.
const lockTTL = 30 * time.Second

// kafka key del evento de recepción completada.
const eventCompletedKey = "goods_receipt.completed"

// WorkflowUseCase orquesta las tres acciones del flujo de recepción (llegada,
// inspección, aprobación) más anulación y consultas. El núcleo de validación
// y cómputo es puro (internal/domain/receiving); aquí se cargan snapshots,
// se serializa el acceso por documento y se persiste el resultado.
type WorkflowUseCase struct {
	txRunner      TxRunner
	receiptRepo   repository.GoodsReceiptRepository
	poRepo        repository.PurchaseOrderRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	locker        DocumentLocker
	publisher     EventPublisher
	parser        DeliveryNoteParser
	pdfGen        ActaPDFGenerator
	log           *logger.Logger
}

// NewWorkflowUseCase construye el caso de uso. locker, publisher, parser y
// pdfGen pueden ser nil en despliegues sin esa infraestructura.
func NewWorkflowUseCase(
	txRunner TxRunner,
	receiptRepo repository.GoodsReceiptRepository,
	poRepo repository.PurchaseOrderRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	locker DocumentLocker,
	publisher EventPublisher,
	parser DeliveryNoteParser,
	pdfGen ActaPDFGenerator,
	log *logger.Logger,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		txRunner:      txRunner,
		receiptRepo:   receiptRepo,
		poRepo:        poRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		locker:        locker,
		publisher:     publisher,
		parser:        parser,
		pdfGen:        pdfGen,
		log:           log,
	}
}

// CompletedEvent notifica a compras/contabilidad que una recepción afectó stock.
type CompletedEvent struct {
	ReceiptID       string     `json:"receipt_id"`
	Number          string     `json:"number"`
	WarehouseID     string     `json:"warehouse_id"`
	PurchaseOrderID string     `json:"purchase_order_id,omitempty"`
	TotalPassed     string     `json:"total_passed"`
	TotalRejected   string     `json:"total_rejected"`
	SpawnedID       string     `json:"spawned_id,omitempty"`
	SpawnedNumber   string     `json:"spawned_number,omitempty"`
	CompletedAt     time.Time  `json:"completed_at"`
}

// loadSnapshot trae el documento con su bodega y orden para evaluar el gate.
func (uc *WorkflowUseCase) loadSnapshot(receiptID string) (*entity.GoodsReceipt, *entity.Warehouse, *entity.PurchaseOrder, error) {
	receipt, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return nil, nil, nil, err
	}
	if receipt == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(receipt.WarehouseID)
	if err != nil {
		return nil, nil, nil, err
	}
	var po *entity.PurchaseOrder
	if receipt.PurchaseOrderID != "" {
		po, err = uc.poRepo.GetByID(receipt.PurchaseOrderID)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return receipt, wh, po, nil
}

// lock serializa la acción por documento. Sin locker configurado no hay
// exclusión local y manda el orden de llamadas del caller.
func (uc *WorkflowUseCase) lock(ctx context.Context, receiptID string) (Unlocker, error) {
	if uc.locker == nil {
		return nil, nil
	}
	unlock, err := uc.locker.Lock(ctx, "lock:gr:"+receiptID, lockTTL)
	if err != nil {
		return nil, domain.ErrDocumentLocked
	}
	return unlock, nil
}

func release(ctx context.Context, unlock Unlocker) {
	if unlock != nil {
		_ = unlock.Release(ctx)
	}
}

// MarkArrived registra la llegada: valida el lote completo con el núcleo puro
// y persiste cabecera y líneas en una sola transacción.
func (uc *WorkflowUseCase) MarkArrived(ctx context.Context, userID, receiptID string, in dto.MarkArrivedRequest) (*dto.UpdatedReceiptResponse, error) {
	unlock, err := uc.lock(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	defer release(ctx, unlock)

	receipt, wh, po, err := uc.loadSnapshot(receiptID)
	if err != nil {
		return nil, err
	}

	receivedDate := time.Now()
	if in.ReceivedDate != nil {
		receivedDate = *in.ReceivedDate
	}
	input := receiving.ArrivalInput{
		ReceivedDate:  receivedDate,
		DeliveryNote:  in.DeliveryNote,
		VehicleNumber: in.VehicleNumber,
		DriverName:    in.DriverName,
		Lines:         make([]receiving.ArrivalLine, len(in.Items)),
	}
	for i, item := range in.Items {
		input.Lines[i] = receiving.ArrivalLine{ItemID: item.ID, QtyReceived: item.QtyReceived}
	}

	updated, err := receiving.MarkArrived(*receipt, wh, po, input)
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	if err := uc.persist(ctx, &updated, nil); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("receipt_id", updated.ID).
		Str("number", updated.Number).
		Str("user_id", userID).
		Msg("llegada registrada")
	resp := toReceiptResponse(&updated)
	return &dto.UpdatedReceiptResponse{Receipt: resp}, nil
}

// QCCheck registra la inspección por lote (todo-o-nada).
func (uc *WorkflowUseCase) QCCheck(ctx context.Context, userID, receiptID string, in dto.QCCheckRequest) (*dto.UpdatedReceiptResponse, error) {
	unlock, err := uc.lock(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	defer release(ctx, unlock)

	receipt, _, _, err := uc.loadSnapshot(receiptID)
	if err != nil {
		return nil, err
	}

	lines := make([]receiving.QCLine, len(in.Items))
	for i, item := range in.Items {
		lines[i] = receiving.QCLine{
			ItemID:      item.ID,
			QtyPassed:   item.QtyPassed,
			QtyRejected: item.QtyRejected,
			Notes:       item.Notes,
		}
	}

	updated, err := receiving.CheckQC(*receipt, lines)
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	if err := uc.persist(ctx, &updated, nil); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("receipt_id", updated.ID).
		Str("user_id", userID).
		Msg("inspección registrada")
	resp := toReceiptResponse(&updated)
	return &dto.UpdatedReceiptResponse{Receipt: resp}, nil
}

// PassAllQC es el atajo "aprobar todo": arma el lote con aprobada = recibida
// y rechazada = 0 y delega en el mismo camino de QCCheck.
func (uc *WorkflowUseCase) PassAllQC(ctx context.Context, userID, receiptID string) (*dto.UpdatedReceiptResponse, error) {
	receipt, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.ErrNotFound
	}
	in := dto.QCCheckRequest{Items: make([]dto.QCItemRequest, len(receipt.Items))}
	for i := range receipt.Items {
		in.Items[i] = dto.QCItemRequest{
			ID:        receipt.Items[i].ID,
			QtyPassed: receipt.Items[i].QtyReceived,
		}
	}
	return uc.QCCheck(ctx, userID, receiptID, in)
}

// Approve finaliza la recepción: reconcilia cantidades, persiste el documento
// COMPLETED y, si quedó faltante, crea el hijo DRAFT en la misma transacción.
// Publica el evento de completado como mejor esfuerzo.
func (uc *WorkflowUseCase) Approve(ctx context.Context, userID, receiptID string, in dto.ApproveRequest) (*dto.UpdatedReceiptResponse, error) {
	unlock, err := uc.lock(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	defer release(ctx, unlock)

	receipt, _, _, err := uc.loadSnapshot(receiptID)
	if err != nil {
		return nil, err
	}

	updated, result, err := receiving.Approve(*receipt)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	updated.UpdatedAt = now
	if in.Notes != "" {
		updated.Notes = in.Notes
	}

	var child *entity.GoodsReceipt
	if result.Child != nil {
		child = buildChildReceipt(result.Child, userID, now)
	}

	if err := uc.persist(ctx, &updated, child); err != nil {
		return nil, err
	}

	uc.publishCompleted(ctx, &updated, result, child, now)

	resp := &dto.UpdatedReceiptResponse{Receipt: toReceiptResponse(&updated)}
	if child != nil {
		resp.SpawnedReceipt = &dto.SpawnedReceiptRef{ID: child.ID, Number: child.Number}
	}
	uc.log.Info().
		Str("receipt_id", updated.ID).
		Str("user_id", userID).
		Bool("spawned", child != nil).
		Msg("recepción aprobada")
	return resp, nil
}

// Cancel anula la recepción (solo DRAFT o ARRIVED).
func (uc *WorkflowUseCase) Cancel(ctx context.Context, userID, receiptID string) (*dto.UpdatedReceiptResponse, error) {
	unlock, err := uc.lock(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	defer release(ctx, unlock)

	receipt, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.ErrNotFound
	}

	updated, err := receiving.Cancel(*receipt)
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	if err := uc.persist(ctx, &updated, nil); err != nil {
		return nil, err
	}
	uc.log.Info().Str("receipt_id", updated.ID).Str("user_id", userID).Msg("recepción anulada")
	resp := toReceiptResponse(&updated)
	return &dto.UpdatedReceiptResponse{Receipt: resp}, nil
}

// Delete elimina una recepción DRAFT sin cantidades registradas.
func (uc *WorkflowUseCase) Delete(ctx context.Context, receiptID string) error {
	receipt, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return err
	}
	if receipt == nil {
		return domain.ErrNotFound
	}
	if receipt.Status != entity.ReceiptStatusDraft {
		return &receiving.InvalidStateError{
			Action: "delete",
			Status: receipt.Status,
			Reason: "solo se elimina un documento en DRAFT",
		}
	}
	for i := range receipt.Items {
		if !receipt.Items[i].QtyReceived.IsZero() {
			return &receiving.InvalidStateError{
				Action: "delete",
				Status: receipt.Status,
				Reason: "el documento ya tiene cantidades recibidas",
			}
		}
	}
	return uc.receiptRepo.Delete(receiptID)
}

// GetByID devuelve la recepción completa.
func (uc *WorkflowUseCase) GetByID(ctx context.Context, receiptID string) (*dto.ReceiptResponse, error) {
	receipt, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.ErrNotFound
	}
	resp := toReceiptResponse(receipt)
	return &resp, nil
}

// List devuelve recepciones filtradas y paginadas.
func (uc *WorkflowUseCase) List(ctx context.Context, filters repository.GoodsReceiptFilters, limit, offset int) ([]dto.ReceiptResponse, error) {
	receipts, err := uc.receiptRepo.List(filters, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceiptResponse, len(receipts))
	for i, r := range receipts {
		out[i] = toReceiptResponse(r)
	}
	return out, nil
}

// Summary devuelve los agregados del libro de cantidades y la única acción
// siguiente permitida. Proyección pura, recalculada en cada petición.
func (uc *WorkflowUseCase) Summary(ctx context.Context, receiptID string) (*dto.ReceiptSummaryResponse, error) {
	receipt, wh, po, err := uc.loadSnapshot(receiptID)
	if err != nil {
		return nil, err
	}
	totals := receiving.Aggregate(receipt.Items)
	return &dto.ReceiptSummaryResponse{
		ReceiptID:     receipt.ID,
		Number:        receipt.Number,
		Status:        receipt.Status,
		TotalPlan:     totals.TotalPlan,
		TotalReceived: totals.TotalReceived,
		TotalPassed:   totals.TotalPassed,
		TotalRejected: totals.TotalRejected,
		CompletionPct: totals.CompletionPct,
		NextAction:    receiving.NextAction(*receipt, wh, po),
	}, nil
}

// SuggestArrival parsea la remisión XML del proveedor y empareja sus líneas
// con las del documento por SKU. No muta nada: devuelve el lote sugerido para
// que el operador lo revise y lo envíe como llegada.
func (uc *WorkflowUseCase) SuggestArrival(ctx context.Context, receiptID string, xmlData []byte) (*dto.DeliveryNoteSuggestionResponse, error) {
	if uc.parser == nil {
		return nil, domain.ErrInvalidInput
	}
	receipt, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.ErrNotFound
	}
	note, err := uc.parser.Parse(xmlData)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(receipt.Items))
	for i := range receipt.Items {
		productIDs = append(productIDs, receipt.Items[i].ProductID)
	}
	products, err := uc.productRepo.GetByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	itemBySKU := make(map[string]string, len(receipt.Items))
	for i := range receipt.Items {
		if p := products[receipt.Items[i].ProductID]; p != nil {
			itemBySKU[p.SKU] = receipt.Items[i].ID
		}
	}

	resp := &dto.DeliveryNoteSuggestionResponse{
		DeliveryNote:  note.Number,
		VehicleNumber: note.VehicleNumber,
		DriverName:    note.DriverName,
	}
	for _, line := range note.Lines {
		itemID, ok := itemBySKU[line.SKU]
		if !ok {
			resp.Unmatched = append(resp.Unmatched, line.SKU)
			continue
		}
		resp.Items = append(resp.Items, dto.ArrivalItemRequest{ID: itemID, QtyReceived: line.Qty})
	}
	return resp, nil
}

// ActaPDF genera el acta de recepción en PDF.
func (uc *WorkflowUseCase) ActaPDF(ctx context.Context, receiptID string) ([]byte, error) {
	if uc.pdfGen == nil {
		return nil, domain.ErrInvalidInput
	}
	receipt, wh, _, err := uc.loadSnapshot(receiptID)
	if err != nil {
		return nil, err
	}
	productIDs := make([]string, 0, len(receipt.Items))
	for i := range receipt.Items {
		productIDs = append(productIDs, receipt.Items[i].ProductID)
	}
	products, err := uc.productRepo.GetByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateActaPDF(ctx, receipt, wh, products)
}

// persist guarda cabecera + líneas y, si aplica, el documento hijo en la
// misma transacción.
func (uc *WorkflowUseCase) persist(ctx context.Context, receipt *entity.GoodsReceipt, child *entity.GoodsReceipt) error {
	return uc.txRunner.Run(ctx, func(
		receiptRepo repository.GoodsReceiptRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		if err := receiptRepo.Update(receipt); err != nil {
			return err
		}
		if child != nil {
			return receiptRepo.Create(child)
		}
		return nil
	})
}

// publishCompleted emite el evento de integración. Un fallo aquí no revierte
// la aprobación: se registra y sigue.
func (uc *WorkflowUseCase) publishCompleted(ctx context.Context, receipt *entity.GoodsReceipt, result receiving.ReconciliationResult, child *entity.GoodsReceipt, now time.Time) {
	if uc.publisher == nil {
		return
	}
	event := CompletedEvent{
		ReceiptID:       receipt.ID,
		Number:          receipt.Number,
		WarehouseID:     receipt.WarehouseID,
		PurchaseOrderID: receipt.PurchaseOrderID,
		TotalPassed:     result.Totals.TotalPassed.String(),
		TotalRejected:   result.Totals.TotalRejected.String(),
		CompletedAt:     now,
	}
	if child != nil {
		event.SpawnedID = child.ID
		event.SpawnedNumber = child.Number
	}
	if err := uc.publisher.Publish(ctx, eventCompletedKey, event); err != nil {
		uc.log.Warn().Err(err).Str("receipt_id", receipt.ID).Msg("no se pudo publicar el evento de completado")
	}
}

// toReceiptResponse mapea entidad → DTO.
func toReceiptResponse(r *entity.GoodsReceipt) dto.ReceiptResponse {
	items := make([]dto.ReceiptItemResponse, len(r.Items))
	for i := range r.Items {
		it := &r.Items[i]
		items[i] = dto.ReceiptItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Unit:        it.Unit,
			QtyPlan:     it.QtyPlan,
			QtyReceived: it.QtyReceived,
			QtyPassed:   it.QtyPassed,
			QtyRejected: it.QtyRejected,
			QCStatus:    it.QCStatus,
			QCNotes:     it.QCNotes,
			POItemID:    it.POItemID,
		}
	}
	return dto.ReceiptResponse{
		ID:              r.ID,
		Number:          r.Number,
		Status:          r.Status,
		SourceType:      r.SourceType,
		TransferStatus:  r.TransferStatus,
		ExpectedDate:    r.ExpectedDate,
		ReceivedDate:    r.ReceivedDate,
		DeliveryNote:    r.DeliveryNote,
		VehicleNumber:   r.VehicleNumber,
		DriverName:      r.DriverName,
		Notes:           r.Notes,
		WarehouseID:     r.WarehouseID,
		PurchaseOrderID: r.PurchaseOrderID,
		ParentID:        r.ParentID,
		Items:           items,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
