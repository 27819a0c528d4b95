package repository

import "github.com/jhoicas/Recepciones-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de lectura/actualización de órdenes
// de compra. El ciclo de vida completo de la orden lo gobierna el sistema de
// compras externo; aquí solo lo necesario para validar y cerrar recepciones.
type PurchaseOrderRepository interface {
	GetByID(id string) (*entity.PurchaseOrder, error)
	List(status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	SetFieldReportVerified(poItemID string, verified bool) error
}
