package export

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"fixtrack/internal/entities"
)

// PDFMaxRows сколько заявок попадает в PDF; остальные только упоминаются в итоговой строке.
const PDFMaxRows = 15

type PDFOptions struct {
	// FontPath путь к TTF-шрифту с кириллицей. Без него используется встроенный Helvetica,
	// и символы вне cp1252 заменяются.
	FontPath string
	Now      time.Time
}

var pdfColumnWidths = []float64{26, 30, 24, 28, 50, 24, 24, 22, 25, 25}

// WriteOrdersPDF альбомный A4 с таблицей первых PDFMaxRows заявок.
func WriteOrdersPDF(w io.Writer, rows []entities.ExportRow, opts PDFOptions) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	family, tr := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		pdf.AddUTF8Font("Report", "", opts.FontPath)
		pdf.AddUTF8Font("Report", "B", opts.FontPath)
		family, tr = "Report", func(s string) string { return s }
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 8, tr("Отчёт по заявкам"), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 9)
	pdf.CellFormat(0, 6, tr("Сформирован: "+opts.Now.Format(dateTimeFormat)), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range orderHeaders {
		pdf.CellFormat(pdfColumnWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 7)
	shown := rows
	if len(shown) > PDFMaxRows {
		shown = shown[:PDFMaxRows]
	}
	for _, row := range shown {
		for i, v := range rowValues(row) {
			pdf.CellFormat(pdfColumnWidths[i], 6, tr(truncate(v, cellLimit(pdfColumnWidths[i]))), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if rest := len(rows) - len(shown); rest > 0 {
		pdf.Ln(2)
		pdf.SetFont(family, "", 9)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("… и ещё %d заявок", rest)), "", 1, "L", false, 0, "")
	}
	pdf.SetFont(family, "", 9)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Всего заявок: %d", len(rows))), "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("ошибка формирования PDF: %w", err)
	}
	return pdf.Output(w)
}

// cellLimit примерная вместимость ячейки в символах при кегле 7.
func cellLimit(width float64) int {
	return int(width / 1.6)
}

func truncate(s string, limit int) string {
	if limit <= 1 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
