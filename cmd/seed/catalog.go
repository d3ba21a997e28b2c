package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
)

// readCatalog lee el catálogo de materiales exportado desde la planilla de planta:
// ISO-8859-1, separado por ';', columnas nombre;peso_estandar;precio_unitario.
// La primera fila es encabezado. Acepta coma decimal.
func readCatalog(r io.Reader) ([]dto.CreateMaterialRequest, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	out := make([]dto.CreateMaterialRequest, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		name := strings.TrimSpace(row[0])
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		in := dto.CreateMaterialRequest{Name: name}
		if in.StandardWeight, err = parseAmount(row, 1); err != nil {
			return nil, fmt.Errorf("línea %d: peso estándar: %w", line, err)
		}
		if in.PricePerUnit, err = parseAmount(row, 2); err != nil {
			return nil, fmt.Errorf("línea %d: precio: %w", line, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func parseAmount(row []string, col int) (decimal.Decimal, error) {
	if col >= len(row) {
		return decimal.Zero, nil
	}
	s := strings.TrimSpace(row[col])
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
