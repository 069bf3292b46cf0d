package services

import (
	"bytes"
	"fmt"

	"quoteserver/comparison"
	apperrors "quoteserver/server/errors"
)

// ExportService сервис для экспорта результатов сравнения
type ExportService struct {
	comparisons *ComparisonService
	exporter    *comparison.Exporter
}

// NewExportService создает новый сервис экспорта
func NewExportService(comparisons *ComparisonService, exporter *comparison.Exporter) *ExportService {
	return &ExportService{
		comparisons: comparisons,
		exporter:    exporter,
	}
}

// ExportComparison выгружает сохраненное сравнение в указанном формате
// Возвращает содержимое файла, Content-Type и имя файла для скачивания
func (s *ExportService) ExportComparison(id, format string) ([]byte, string, string, error) {
	exportFormat, contentType, ext, err := resolveFormat(format)
	if err != nil {
		return nil, "", "", err
	}

	run, err := s.comparisons.GetComparison(id)
	if err != nil {
		return nil, "", "", err
	}

	var buf bytes.Buffer
	if err := s.exporter.Export(&buf, run.Result, exportFormat); err != nil {
		return nil, "", "", apperrors.NewInternalError("failed to export comparison", err).
			WithContext("ExportService.ExportComparison")
	}

	filename := fmt.Sprintf("comparison_%s.%s", id, ext)
	return buf.Bytes(), contentType, filename, nil
}

// resolveFormat сопоставляет запрошенный формат с форматом экспорта
func resolveFormat(format string) (comparison.ExportFormat, string, string, error) {
	switch format {
	case "", "json":
		return comparison.FormatJSON, "application/json; charset=utf-8", "json", nil
	case "csv":
		return comparison.FormatCSV, "text/csv; charset=utf-8", "csv", nil
	case "xlsx", "excel":
		return comparison.FormatExcel, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", nil
	default:
		return "", "", "", apperrors.NewValidationError(
			fmt.Sprintf("unsupported export format %q, supported: json, csv, xlsx", format), nil)
	}
}
