// Package pdf genera el reporte de pesajes en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + filtro     │  generado por + fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Material | Lote | Peso | Estado | Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: registros / peso total                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/veroscale-api/internal/application/weighing"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[string]string{
	entity.RecordStatusPending:  "Pendiente",
	entity.RecordStatusApproved: "Aprobado",
	entity.RecordStatusRejected: "Rechazado",
}

var _ weighing.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa weighing.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateWeightReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateWeightReport(_ context.Context, data weighing.ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(data.Title, true).
		WithAuthor(data.GeneratedBy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(detailRows(data.Records)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(data weighing.ReportData) core.Row {
	filter := "Todos los estados"
	if label, ok := statusLabels[data.Status]; ok {
		filter = "Estado: " + label
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(data.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filter, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Generado por: "+nonEmpty(data.GeneratedBy, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Fecha: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Left),
		h("Material", 4, align.Left),
		h("Lote", 2, align.Left),
		h("Peso (kg)", 2, align.Right),
		h("Estado", 1, align.Center),
		h("Fecha", 2, align.Right),
	)
}

func detailRows(records []*entity.WeightRecord) []core.Row {
	if len(records) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin registros para el filtro seleccionado.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		))}
	}
	out := make([]core.Row, 0, len(records))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1}))
	}
	for _, r := range records {
		out = append(out, row.New(6).Add(
			cell(strconv.FormatInt(r.ID, 10), 1, align.Left),
			cell(nonEmpty(r.ItemName, "-"), 4, align.Left),
			cell(nonEmpty(r.BatchNumber, "-"), 2, align.Left),
			cell(r.TotalWeight.StringFixed(3), 2, align.Right),
			cell(nonEmpty(statusLabels[r.Status], r.Status), 1, align.Center),
			cell(r.CreatedAt.Format("02/01/2006"), 2, align.Right),
		))
	}
	return out
}

func totalsRow(data weighing.ReportData) core.Row {
	return row.New(14).Add(
		col.New(6),
		col.New(6).Add(
			text.New(fmt.Sprintf("Registros: %d", len(data.Records)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Peso total: "+data.TotalWeight.StringFixed(3)+" kg", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 7,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
