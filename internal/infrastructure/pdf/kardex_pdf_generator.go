// Package pdf genera la representación imprimible del Kardex de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Kardex + producto (código, nombre)                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: stock actual, movimientos, fecha de emisión       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Descripción | E/S | Cant | Antes | Después  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: saldo de cierre verificado                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

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

	appinv "github.com/ferrecentro/inventario-api/internal/application/inventory"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorEntrada = &props.Color{Red: 0, Green: 120, Blue: 60}
	colorSalida  = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexPDFGenerator genera el Kardex imprimible usando Maroto v2.
type KardexPDFGenerator struct{}

// NewKardexPDFGenerator construye el generador.
func NewKardexPDFGenerator() *KardexPDFGenerator { return &KardexPDFGenerator{} }

// Generate arma el documento a partir de un Kardex ya reconstruido y
// devuelve sus bytes.
func (g *KardexPDFGenerator) Generate(result *appinv.KardexResult) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de producto", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(result.Product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(result))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableEntryRows(result.Entries) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(closingRow(result))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y código + nombre del producto (der).
func headerRow(p *entity.Product) core.Row {
	return row.New(16).Add(
		col.New(5).Add(
			text.New("KARDEX DE PRODUCTO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Historia de movimientos y saldos", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(7).Add(
			text.New(p.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New("Código: "+p.Codigo, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: stock actual, cantidad de movimientos y fecha de emisión.
func summaryRow(result *appinv.KardexResult) core.Row {
	emitido := time.Now().Format("02/01/2006 15:04")
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf(
				"Stock actual (todos los depósitos): %s   |   Movimientos: %d   |   Emitido: %s",
				result.CurrentStock.String(), len(result.Entries), emitido,
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Tipo", 1, align.Center),
		h("Cantidad", 2, align.Right),
		h("Antes", 1, align.Right),
		h("Después", 2, align.Right),
	)
}

// tableEntryRows: una fila por movimiento, con color según dirección.
func tableEntryRows(entries []appinv.KardexEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		dirColor := colorEntrada
		if e.Direction == entity.DirectionSalida {
			dirColor = colorSalida
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				e.Movement.CreatedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				e.Description,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				e.Direction,
				props.Text{Size: 7.5, Align: align.Center, Top: 1, Color: dirColor, Style: fontstyle.Bold},
			)),
			col.New(2).Add(text.New(
				e.Movement.Quantity.String(),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1, Color: dirColor},
			)),
			col.New(1).Add(text.New(
				e.Before.String(),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				e.After.String(),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1, Style: fontstyle.Bold},
			)),
		))
	}
	return result
}

// closingRow: saldo de cierre ya verificado contra el stock actual.
func closingRow(result *appinv.KardexResult) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("SALDO DE CIERRE VERIFICADO: %s", result.CurrentStock.String()),
				props.Text{
					Style: fontstyle.Bold, Size: 10, Align: align.Right,
					Color: colorPrimary, Top: 2, Right: 1,
				}),
		),
	)
}
