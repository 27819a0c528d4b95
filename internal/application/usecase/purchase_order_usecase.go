package usecase

import (
	"github.com/jhoicas/Recepciones-api/internal/application/dto"
	"github.com/jhoicas/Recepciones-api/internal/domain"
	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/repository"
)

// PurchaseOrderUseCase consultas de órdenes de compra y verificación del
// informe de obra por línea.
type PurchaseOrderUseCase struct {
	repo repository.PurchaseOrderRepository
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(repo repository.PurchaseOrderRepository) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{repo: repo}
}

// GetByID obtiene una orden con sus líneas.
func (uc *PurchaseOrderUseCase) GetByID(id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseOrderResponse(po), nil
}

// List lista órdenes, opcionalmente filtradas por estado.
func (uc *PurchaseOrderUseCase) List(status string, limit, offset int) ([]dto.PurchaseOrderResponse, error) {
	list, err := uc.repo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toPurchaseOrderResponse(po))
	}
	return items, nil
}

// VerifyFieldReport marca o desmarca el informe de obra de una línea. En
// bodegas WIP el gate de recepción exige todas las líneas verificadas.
func (uc *PurchaseOrderUseCase) VerifyFieldReport(poItemID string, in dto.VerifyFieldReportRequest) error {
	return uc.repo.SetFieldReportVerified(poItemID, in.Verified)
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.POItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.POItemResponse{
			ID:                  it.ID,
			ProductID:           it.ProductID,
			Unit:                it.Unit,
			Quantity:            it.Quantity,
			UnitPrice:           it.UnitPrice,
			FieldReportVerified: it.FieldReportVerified,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:           po.ID,
		Number:       po.Number,
		Status:       po.Status,
		SupplierName: po.SupplierName,
		WarehouseID:  po.WarehouseID,
		Currency:     po.Currency,
		OrderDate:    po.OrderDate,
		ExpectedDate: po.ExpectedDate,
		Notes:        po.Notes,
		Items:        items,
	}
}
