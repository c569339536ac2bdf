package export

import (
	"bytes"
	"testing"
	"time"

	"shop_backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestWriteOrders(t *testing.T) {
	orders := []domain.Order{{
		ID:            "o1",
		UserID:        "u1",
		AddressDetail: "1 Main St",
		Items: []domain.OrderLine{
			{ProductID: "p1", ProductName: "mug", UnitPrice: decimal.RequireFromString("10"), Quantity: 2},
			{ProductID: "p2", ProductName: "tea", UnitPrice: decimal.RequireFromString("2.5"), Quantity: 1},
		},
		Price:     decimal.RequireFromString("22.5"),
		Status:    domain.OrderStatusPaid,
		CreatedAt: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, orders))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 2)

	row := sheet.Rows[1]
	var got []string
	for _, c := range row.Cells {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"o1", "u1", "paid", "22.50", "mug x2 @ 10.00; tea x1 @ 2.50", "1 Main St", "2024-05-01 08:30:00",
	}, got)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].String())
}

func TestWriteOrdersEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, nil))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, file.Sheets[0].Rows, 1)
}
