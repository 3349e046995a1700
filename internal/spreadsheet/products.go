package spreadsheet

import (
	"fmt"
	"io"

	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/xuri/excelize/v2"
)

var productColumns = []interface{}{"ID", "Shop", "Name", "Category", "Unit", "Price", "Stock", "Available"}

// WriteProducts writes products to w as a workbook with a single
// "Products" sheet.
func WriteProducts(w io.Writer, products []model.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(ProductsSheet, "A1", &productColumns); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(ProductsSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, p := range products {
		shop := ""
		if p.Producer != nil {
			shop = p.Producer.ShopName
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			p.ID.String(), shop, p.Name, p.Category, p.Unit,
			p.Price.InexactFloat64(), p.Stock, p.IsAvailable,
		}
		if err := f.SetSheetRow(ProductsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write product %s: %w", p.ID, err)
		}
	}

	if err := f.SetColWidth(ProductsSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(ProductsSheet, "B", "C", 24); err != nil {
		return err
	}

	return f.Write(w)
}
