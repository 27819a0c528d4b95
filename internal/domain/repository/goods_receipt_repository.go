package repository

import "github.com/jhoicas/Recepciones-api/internal/domain/entity"

// GoodsReceiptFilters filtros del listado de recepciones.
type GoodsReceiptFilters struct {
	Status      string
	WarehouseID string
	SourceType  string
}

// GoodsReceiptRepository define el puerto de persistencia para GoodsReceipt
// y sus líneas (DIP). Create y Update persisten cabecera y líneas juntas.
type GoodsReceiptRepository interface {
	Create(receipt *entity.GoodsReceipt) error
	GetByID(id string) (*entity.GoodsReceipt, error)
	Update(receipt *entity.GoodsReceipt) error
	List(filters GoodsReceiptFilters, limit, offset int) ([]*entity.GoodsReceipt, error)
	Delete(id string) error
}
