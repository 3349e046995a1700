// Package spreadsheet reads catalog imports and writes product exports as
// XLSX workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	CatalogSheet  = "Catalog"
	ProductsSheet = "Products"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrNoCatalogRows = errors.New("catalog sheet has no data rows")

// CatalogColumns is the header row of the import sheet. Column order in the
// file is free; names are matched case-insensitively.
var CatalogColumns = []string{
	"email", "password", "shopName", "address", "description",
	"productName", "price", "stock", "category", "unit", "productDescription",
}

// CatalogRow is one producer/product line of an import. Price and Stock are
// kept as text and validated by the product service.
type CatalogRow struct {
	Row                int // 1-based sheet row
	Email              string
	Password           string
	ShopName           string
	Address            string
	Description        string
	ProductName        string
	Price              string
	Stock              string
	Category           string
	Unit               string
	ProductDescription string
}

// ReadCatalog parses the "Catalog" sheet. Blank rows are skipped.
func ReadCatalog(r io.Reader) ([]CatalogRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(CatalogSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", CatalogSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", CatalogSheet)
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range CatalogColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("sheet %q is missing column %q", CatalogSheet, col)
		}
	}

	var out []CatalogRow
	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(col string) string {
			pos := index[strings.ToLower(col)]
			if pos >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[pos])
		}
		if isBlank(row) {
			continue
		}

		line := CatalogRow{
			Row:                rowNum,
			Email:              cell("email"),
			Password:           cell("password"),
			ShopName:           cell("shopName"),
			Address:            cell("address"),
			Description:        cell("description"),
			ProductName:        cell("productName"),
			Price:              cell("price"),
			Stock:              cell("stock"),
			Category:           cell("category"),
			Unit:               cell("unit"),
			ProductDescription: cell("productDescription"),
		}

		var missing []string
		for _, f := range []struct{ name, value string }{
			{"email", line.Email},
			{"shopName", line.ShopName},
			{"productName", line.ProductName},
		} {
			if f.value == "" {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("row %d: missing %s", rowNum, strings.Join(missing, ", "))
		}
		out = append(out, line)
	}

	if len(out) == 0 {
		return nil, ErrNoCatalogRows
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
