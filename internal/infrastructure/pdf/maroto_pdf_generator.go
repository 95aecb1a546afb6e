// Package pdf genera el PDF de reemplazo que entrega la fuente simulada de documentos
// cuando se descarga un documento PDF sin backend.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del documento  │  Tipo + Fecha de subida     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ARCHIVO: nombre original / tamaño / páginas                │
//	│  DESCRIPCIÓN                                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id + leyenda de modo desarrollo          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/bakano/bakano-web/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var typeLabels = map[entity.DocumentType]string{
	entity.DocumentContract:     "CONTRATO",
	entity.DocumentPliego:       "PLIEGO DE CONDICIONES",
	entity.DocumentPropuesta:    "PROPUESTA",
	entity.DocumentConstitution: "CONSTITUCIÓN",
	entity.DocumentOther:        "OTRO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera PDFs de reemplazo con Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// DocumentPlaceholder genera una página con los metadatos del documento y devuelve sus bytes.
func (g *MarotoPDFGenerator) DocumentPlaceholder(_ context.Context, doc *entity.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("pdf: documento nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Name, true).
		WithAuthor("Bakano", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(fileRow(doc))
	if doc.Description != "" {
		m.AddRows(descriptionRow(doc.Description))
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc *entity.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("ID: "+doc.Key(), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(nonEmpty(typeLabels[doc.Type], "DOCUMENTO"), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Subido: "+doc.UploadedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func fileRow(doc *entity.Document) core.Row {
	pages := "—"
	if doc.Metadata != nil && doc.Metadata.Pages > 0 {
		pages = strconv.Itoa(doc.Metadata.Pages)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ARCHIVO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Nombre original: %s   |   Tamaño: %s bytes   |   Páginas: %s",
				nonEmpty(doc.OriginalName, "—"),
				formatThousands(strconv.FormatInt(doc.Size, 10)),
				pages,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func descriptionRow(desc string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESCRIPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(desc, props.Text{Size: 9, Top: 6}),
		),
	)
}

func footerRow(doc *entity.Document) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr("bakano:document:"+doc.Key(), props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Documento simulado (modo desarrollo).", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
			}),
			text.New("El contenido real no está disponible sin conexión con la API de Bakano.", props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "2048576" → "2.048.576"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
