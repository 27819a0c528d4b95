// Package xml interpreta la remisión electrónica que envían los proveedores
// junto con el despacho. Formato acordado con los proveedores:
//
//	<Remision numero="REM-001" fecha="2026-09-01">
//	  <Transporte placa="ABC123" conductor="Juan Pérez"/>
//	  <Detalle>
//	    <Linea sku="CEM-GRIS-50" unidad="UN" cantidad="120"/>
//	  </Detalle>
//	</Remision>
package xml

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	apprecv "github.com/jhoicas/Recepciones-api/internal/application/receiving"
)

var _ apprecv.DeliveryNoteParser = (*DeliveryNoteParser)(nil)

// DeliveryNoteParser parsea el XML de remisión con etree.
type DeliveryNoteParser struct{}

// NewDeliveryNoteParser construye el parser.
func NewDeliveryNoteParser() *DeliveryNoteParser { return &DeliveryNoteParser{} }

// Parse interpreta el documento. Falla si el XML no es válido, si falta el
// número de remisión o si alguna cantidad no es numérica.
func (p *DeliveryNoteParser) Parse(data []byte) (*apprecv.DeliveryNote, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("xml: leer remisión: %w", err)
	}
	root := doc.SelectElement("Remision")
	if root == nil {
		return nil, fmt.Errorf("xml: falta el elemento raíz Remision")
	}

	note := &apprecv.DeliveryNote{
		Number: root.SelectAttrValue("numero", ""),
	}
	if note.Number == "" {
		return nil, fmt.Errorf("xml: la remisión no tiene número")
	}
	if raw := root.SelectAttrValue("fecha", ""); raw != "" {
		fecha, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("xml: fecha inválida %q: %w", raw, err)
		}
		note.Date = &fecha
	}
	if transporte := root.SelectElement("Transporte"); transporte != nil {
		note.VehicleNumber = transporte.SelectAttrValue("placa", "")
		note.DriverName = transporte.SelectAttrValue("conductor", "")
	}

	detalle := root.SelectElement("Detalle")
	if detalle == nil {
		return note, nil
	}
	for _, linea := range detalle.SelectElements("Linea") {
		sku := linea.SelectAttrValue("sku", "")
		if sku == "" {
			return nil, fmt.Errorf("xml: línea de remisión sin sku")
		}
		raw := linea.SelectAttrValue("cantidad", "")
		qty, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("xml: cantidad inválida %q en sku %s: %w", raw, sku, err)
		}
		note.Lines = append(note.Lines, apprecv.DeliveryNoteLine{
			SKU:  sku,
			Unit: linea.SelectAttrValue("unidad", ""),
			Qty:  qty,
		})
	}
	return note, nil
}
