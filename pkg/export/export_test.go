package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fixtrack/internal/entities"
)

func sampleRows(n int) []entities.ExportRow {
	tech := "tech1"
	rows := make([]entities.ExportRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, entities.ExportRow{
			TicketCode:         "FIXAAAA000" + string(rune('0'+i%10)),
			ClientName:         "Client",
			ServiceType:        "equipment_repair",
			ProblemDescription: "Не включается",
			Status:             "pending",
			TechnicianUsername: &tech,
			CreatedAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		})
	}
	return rows
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("excel")
	assert.True(t, ok)
	assert.Equal(t, FormatExcel, f)

	f, ok = ParseFormat("pdf")
	assert.True(t, ok)
	assert.Equal(t, ContentTypePDF, f.ContentType())

	_, ok = ParseFormat("csv")
	assert.False(t, ok)

	assert.Equal(t, "orders_2024-03-01.xlsx", FormatExcel.FileName(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWriteOrdersXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersXLSX(&buf, sampleRows(3)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(ordersSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Номер", header)

	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "Ожидает", rows[1][5])
	assert.Equal(t, "tech1", rows[1][6])
}

func TestWriteOrdersPDF(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOrdersPDF(&buf, sampleRows(20), PDFOptions{Now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "абв…", truncate("абвгдеж", 4))
}
