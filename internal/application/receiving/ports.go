package receiving

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repos atados a una misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		receiptRepo repository.GoodsReceiptRepository,
		poRepo repository.PurchaseOrderRepository,
	) error) error
}

// Unlocker libera un lock de documento.
type Unlocker interface {
	Release(ctx context.Context) error
}

// DocumentLocker serializa las acciones del flujo por documento: dos
// operadores sobre la misma recepción no entran a la vez. La detección de
// conflictos a nivel de persistencia sigue siendo responsabilidad del backend
// de stock externo.
type DocumentLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (Unlocker, error)
}

// EventPublisher publica eventos de integración (mejor esfuerzo).
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// DeliveryNote es la remisión electrónica del proveedor ya parseada.
type DeliveryNote struct {
	Number        string
	Date          *time.Time
	VehicleNumber string
	DriverName    string
	Lines         []DeliveryNoteLine
}

// DeliveryNoteLine una línea de la remisión, identificada por SKU.
type DeliveryNoteLine struct {
	SKU  string
	Unit string
	Qty  decimal.Decimal
}

// DeliveryNoteParser interpreta el XML de una remisión de proveedor.
type DeliveryNoteParser interface {
	Parse(data []byte) (*DeliveryNote, error)
}

// ActaPDFGenerator genera el acta de recepción en PDF.
type ActaPDFGenerator interface {
	GenerateActaPDF(ctx context.Context, receipt *entity.GoodsReceipt, warehouse *entity.Warehouse, products map[string]*entity.Product) ([]byte, error)
}
