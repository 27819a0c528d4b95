// Package pdf implementa la generación del Acta de Recepción de Mercancía.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Acta de Recepción  │  N° Documento + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGA: Nombre / Dirección                                 │
//	│  TRANSPORTE: Remisión / Placa / Conductor                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Und | Plan | Recib | Aprob | Rech  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Planificado / Recibido / Aprobado / Rechazado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entrega / Recibe / Calidad                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apprecv "github.com/jhoicas/Recepciones-api/internal/application/receiving"
	"github.com/jhoicas/Recepciones-api/internal/domain/entity"
	"github.com/jhoicas/Recepciones-api/internal/domain/receiving"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ apprecv.ActaPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa receiving.ActaPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateActaPDF genera el acta y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateActaPDF(
	_ context.Context,
	receipt *entity.GoodsReceipt,
	warehouse *entity.Warehouse,
	products map[string]*entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Recepción "+receipt.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(bodegaRow(warehouse))
	m.AddRows(transporteRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(receipt.Items, products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(receiving.Aggregate(receipt.Items)))

	m.AddRows(line.NewRow(6))
	m.AddRows(firmasRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y número + fecha + estado (der).
func headerRow(receipt *entity.GoodsReceipt) core.Row {
	fecha := "—"
	if receipt.ReceivedDate != nil {
		fecha = receipt.ReceivedDate.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ACTA DE RECEPCIÓN DE MERCANCÍA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Origen: "+receipt.SourceType, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(receipt.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha recepción: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Estado: "+receipt.Status, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// bodegaRow: datos de la bodega receptora.
func bodegaRow(warehouse *entity.Warehouse) core.Row {
	name, address := "—", "—"
	if warehouse != nil {
		name = warehouse.Name
		address = nonEmpty(warehouse.Address, "—")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("BODEGA RECEPTORA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Dirección: %s", name, address),
				props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// transporteRow: remisión, placa y conductor del transporte.
func transporteRow(receipt *entity.GoodsReceipt) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("TRANSPORTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Remisión: %s   |   Placa: %s   |   Conductor: %s",
				nonEmpty(receipt.DeliveryNote, "—"),
				nonEmpty(receipt.VehicleNumber, "—"),
				nonEmpty(receipt.DriverName, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Und", 1, align.Center),
		h("Plan", 1, align.Right),
		h("Recib.", 2, align.Right),
		h("Aprob.", 1, align.Right),
		h("Rech.", 1, align.Right),
		h("QC", 1, align.Center),
	)
}

// tableItemRows: una fila por línea de la recepción.
func tableItemRows(items []entity.GoodsReceiptItem, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i := range items {
		it := &items[i]
		sku, name := it.ProductID, "—"
		if p := products[it.ProductID]; p != nil {
			sku, name = p.SKU, p.Name
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
			}))
		}
		result = append(result, row.New(7).Add(
			cell(sku, 2, align.Left),
			cell(name, 3, align.Left),
			cell(it.Unit, 1, align.Center),
			cell(it.QtyPlan.StringFixed(2), 1, align.Right),
			cell(it.QtyReceived.StringFixed(2), 2, align.Right),
			cell(it.QtyPassed.StringFixed(2), 1, align.Right),
			cell(it.QtyRejected.StringFixed(2), 1, align.Right),
			cell(it.QCStatus, 1, align.Center),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(totals receiving.Totals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(32).Add(
		col.New(3),
		col.New(3).Add(
			label("Planificado:"),
			label("Recibido:"),
			label("Rechazado:"),
			grandLabel("APROBADO:"),
		),
		col.New(3).Add(
			value(totals.TotalPlan.StringFixed(2)),
			value(totals.TotalReceived.StringFixed(2)),
			value(totals.TotalRejected.StringFixed(2)),
			grandValue(fmt.Sprintf("%s (%d%%)", totals.TotalPassed.StringFixed(2), totals.CompletionPct)),
		),
		col.New(3),
	)
}

// firmasRow: espacios de firma para entrega, recepción y calidad.
func firmasRow() core.Row {
	firma := func(label string) core.Col {
		return col.New(4).Add(
			text.New("________________________", props.Text{
				Size: 9, Align: align.Center, Top: 2, Color: colorGray,
			}),
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 8,
			}),
		)
	}
	return row.New(16).Add(
		firma("ENTREGA (Transportador)"),
		firma("RECIBE (Bodega)"),
		firma("CONTROL DE CALIDAD"),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
