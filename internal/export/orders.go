// Package export renders order listings as xlsx workbooks for back-office download.
package export

import (
	"fmt"
	"io"
	"strings"

	"shop_backend/internal/domain"

	"github.com/tealeg/xlsx"
)

// ContentType is the MIME type of the workbooks written here
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeaders = []string{"ID", "User", "Status", "Total", "Items", "Address", "CreatedAt"}

// WriteOrders writes one sheet with a header row and one row per order
func WriteOrders(w io.Writer, orders []domain.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	// Header row
	headerRow := sheet.AddRow()
	for _, h := range orderHeaders {
		headerRow.AddCell().SetString(h)
	}

	// Data rows
	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.UserID)
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(o.Price.StringFixed(2))
		row.AddCell().SetString(formatLines(o.Items))
		row.AddCell().SetString(o.AddressDetail)
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

// formatLines renders lines as "name x qty @ price; ..."
func formatLines(lines []domain.OrderLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%s x%d @ %s", l.ProductName, l.Quantity, l.UnitPrice.StringFixed(2))
	}
	return strings.Join(parts, "; ")
}
