package export

import (
	"fmt"
	"time"

	"fixtrack/internal/entities"
	"fixtrack/pkg/constants"
	"fixtrack/pkg/utils"
)

type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

func ParseFormat(value string) (Format, bool) {
	switch Format(value) {
	case FormatExcel, "xlsx":
		return FormatExcel, true
	case FormatPDF:
		return FormatPDF, true
	}
	return "", false
}

// FileName имя файла выгрузки с датой формирования.
func (f Format) FileName(now time.Time) string {
	ext := "xlsx"
	if f == FormatPDF {
		ext = "pdf"
	}
	return fmt.Sprintf("orders_%s.%s", now.Format("2006-01-02"), ext)
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return ContentTypePDF
	}
	return ContentTypeXLSX
}

var orderHeaders = []string{
	"Номер", "Клиент", "Телефон", "Услуга", "Проблема", "Статус", "Техник", "Создал", "Создана", "Закрыта",
}

const dateTimeFormat = "02.01.2006 15:04"

func rowValues(row entities.ExportRow) []string {
	closedAt := ""
	if row.ClosedAt != nil {
		closedAt = row.ClosedAt.Format(dateTimeFormat)
	}
	technician := utils.SafeDeref(row.TechnicianUsername)
	if technician == "" {
		technician = "Не назначен"
	}
	return []string{
		row.TicketCode,
		row.ClientName,
		utils.SafeDeref(row.ClientPhone),
		constants.ServiceType(row.ServiceType).Label(),
		row.ProblemDescription,
		constants.OrderStatus(row.Status).Label(),
		technician,
		utils.SafeDeref(row.CreatorUsername),
		row.CreatedAt.Format(dateTimeFormat),
		closedAt,
	}
}
