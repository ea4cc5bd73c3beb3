// Package pdf implementa la representación imprimible de un documento de
// operación de almacén (albarán de recepción/entrega, orden de traslado o
// acta de ajuste por conteo).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento + Número  │  Estado + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGA: Código + Nombre + Dirección                        │
//	│  TERCERO: Proveedor/Cliente + Notas                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Origen | Destino | Cant | UdM      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Creado por / Validado por + firmas                 │
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

	"github.com/jhoicas/almacen-api/internal/application/operations"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/operation"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Títulos legibles por tipo de documento.
var kindTitles = map[operation.Kind]string{
	operation.KindReceipt:    "ALBARÁN DE RECEPCIÓN",
	operation.KindDelivery:   "ALBARÁN DE ENTREGA",
	operation.KindTransfer:   "ORDEN DE TRASLADO INTERNO",
	operation.KindAdjustment: "ACTA DE AJUSTE DE INVENTARIO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa operations.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateOperationPDF genera el PDF del documento y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateOperationPDF(
	_ context.Context,
	op *entity.Operation,
	warehouse *entity.Warehouse,
	lines []operations.LineForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(op.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(op))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(warehouseRow(warehouse))
	m.AddRows(partnerRow(op))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(op.Kind))
	for _, r := range tableLineRows(op.Kind, lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRows(op)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo + número (izq) y estado + fecha (der).
func headerRow(op *entity.Operation) core.Row {
	title := kindTitles[op.Kind]
	if title == "" {
		title = string(op.Kind)
	}
	fecha := op.CreatedAt.Format("02/01/2006")
	if op.ValidatedAt != nil {
		fecha = op.ValidatedAt.Format("02/01/2006")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(op.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Estado: "+string(op.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// warehouseRow: datos de la bodega donde ocurre la operación.
func warehouseRow(warehouse *entity.Warehouse) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("BODEGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s · %s   |   %s",
				warehouse.Code, warehouse.Name,
				nonEmpty(warehouse.Address, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// partnerRow: tercero (proveedor/cliente) y notas del documento.
func partnerRow(op *entity.Operation) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TERCERO / REFERENCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(op.Partner, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Notas: "+nonEmpty(op.Notes, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas. En AJUSTE la cantidad es
// el conteo físico, no una cantidad a mover.
func tableHeaderRow(kind operation.Kind) core.Row {
	qtyLabel := "Cant."
	if kind == operation.KindAdjustment {
		qtyLabel = "Conteo"
	}
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Origen", 2, align.Center),
		h("Destino", 2, align.Center),
		h(qtyLabel, 1, align.Right),
		h("UdM", 1, align.Center),
	)
}

// tableLineRows: una fila por línea del documento.
func tableLineRows(kind operation.Kind, lines []operations.LineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		src, dest := l.SourceCode, l.DestCode
		// Los extremos externos del movimiento no tienen ubicación.
		switch kind {
		case operation.KindReceipt:
			src = nonEmpty(src, "PROVEEDOR")
		case operation.KindDelivery:
			dest = nonEmpty(dest, "CLIENTE")
		case operation.KindAdjustment:
			src = "—"
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.ProductSKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(src, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(dest, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.UnitMeasure,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// footerRows: responsables y espacio de firmas.
func footerRows(op *entity.Operation) []core.Row {
	validado := "pendiente de validación"
	if op.ValidatedBy != nil {
		validado = *op.ValidatedBy
		if op.ValidatedAt != nil {
			validado += " · " + op.ValidatedAt.Format("02/01/2006 15:04")
		}
	}
	return []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New("Creado por: "+op.CreatedBy, props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
			text.New("Validado por: "+validado, props.Text{
				Size: 8, Top: 6, Color: colorGray,
			}),
		)),
		row.New(20).Add(
			col.New(6).Add(
				text.New("_______________________", props.Text{Size: 9, Align: align.Center, Top: 12}),
				text.New("Entrega", props.Text{Size: 8, Align: align.Center, Top: 17, Color: colorGray}),
			),
			col.New(6).Add(
				text.New("_______________________", props.Text{Size: 9, Align: align.Center, Top: 12}),
				text.New("Recibe", props.Text{Size: 8, Align: align.Center, Top: 17, Color: colorGray}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
