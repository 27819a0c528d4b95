package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// POItemResponse salida de una línea de orden de compra.
type POItemResponse struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	Unit                string          `json:"unit"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	FieldReportVerified bool            `json:"field_report_verified"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID           string           `json:"id"`
	Number       string           `json:"number"`
	Status       string           `json:"status"`
	SupplierName string           `json:"supplier_name"`
	WarehouseID  string           `json:"warehouse_id"`
	Currency     string           `json:"currency"`
	OrderDate    time.Time        `json:"order_date"`
	ExpectedDate *time.Time       `json:"expected_date,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	Items        []POItemResponse `json:"items"`
}

// VerifyFieldReportRequest marca el informe de obra de una línea como
// verificado (o lo revierte).
type VerifyFieldReportRequest struct {
	Verified bool `json:"verified"`
}
