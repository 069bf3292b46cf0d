package comparison

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportFormat формат экспорта результата сравнения
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "xlsx"
)

// Exporter экспортер результата сравнения в JSON, CSV и Excel
type Exporter struct{}

// NewExporter создает новый экспортер
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export записывает результат в указанном формате
func (e *Exporter) Export(w io.Writer, result *Result, format ExportFormat) error {
	switch format {
	case FormatJSON:
		return e.WriteJSON(w, result)
	case FormatCSV:
		return e.WriteCSV(w, result)
	case FormatExcel:
		return e.WriteExcel(w, result)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportToFile записывает результат в файл, формат выбирается по расширению
func (e *Exporter) ExportToFile(filename string, result *Result) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch {
	case strings.HasSuffix(filename, ".json"):
		return e.WriteJSON(file, result)
	case strings.HasSuffix(filename, ".csv"):
		return e.WriteCSV(file, result)
	case strings.HasSuffix(filename, ".xlsx"):
		return e.WriteExcel(file, result)
	default:
		return fmt.Errorf("unsupported file extension: %s", filename)
	}
}

// WriteJSON записывает результат как JSON с отступами
func (e *Exporter) WriteJSON(w io.Writer, result *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// csvHeaders заголовки таблицы сравнения (общие для CSV и Excel)
var csvHeaders = []string{
	"Rank", "Supplier Name", "Recommendation", "Total Score", "Missing Data Penalty",
	"TCO Score (35%)", "Delivery Score (25%)", "Payment Score (20%)",
	"Tooling Score (10%)", "MOQ Score (10%)",
	"Total Cost (TCO) - EUR", "Tooling Cost - EUR", "Average Unit Price - EUR",
	"Price Summary (EUR)", "Original Currency", "Total Cost (Original)",
	"Incoterms", "Delivery Terms", "Lead Time", "Lead Time (Weeks)",
	"Payment Terms", "Payment Days", "MOQ", "Quotation Date", "Years Covered",
}

// WriteCSV записывает таблицу сравнения как CSV
func (e *Exporter) WriteCSV(w io.Writer, result *Result) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, item := range result.ComparisonTable {
		if err := writer.Write(e.tableRow(item, result)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

// WriteExcel записывает результат как книгу Excel с тремя листами:
// таблица сравнения, рекомендация и сводка
func (e *Exporter) WriteExcel(w io.Writer, result *Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Supplier Comparison"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	// Стиль заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range csvHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, item := range result.ComparisonTable {
		row := e.tableRow(item, result)
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range csvHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	// Шапка и колонка поставщика остаются видимыми при прокрутке
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if result.Recommendation != nil {
		if err := e.writeRecommendationSheet(f, headerStyle, result.Recommendation); err != nil {
			return err
		}
	}

	if result.Summary != nil {
		if err := e.writeSummarySheet(f, headerStyle, result); err != nil {
			return err
		}
	}

	// Удаляем дефолтный пустой лист
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}

	return nil
}

// tableRow строка таблицы сравнения для CSV/Excel
func (e *Exporter) tableRow(item ComparisonItem, result *Result) []string {
	recNote := ""
	if item.Ranking == 1 && result.Recommendation != nil &&
		result.Recommendation.RecommendedSupplier == item.Supplier {
		recNote = "RECOMMENDED"
	}

	penalty := "0"
	if item.Scores != nil && item.Scores.MissingDataPenalty > 0 {
		penalty = fmt.Sprintf("-%.1f", item.Scores.MissingDataPenalty)
	}

	scores := item.Scores
	if scores == nil {
		scores = &CriteriaScores{}
	}

	return []string{
		strconv.Itoa(item.Ranking),
		item.Supplier,
		recNote,
		fmt.Sprintf("%.1f", item.TotalScore),
		penalty,
		fmt.Sprintf("%.1f", scores.TCOScore),
		fmt.Sprintf("%.1f", scores.DeliveryScore),
		fmt.Sprintf("%.1f", scores.PaymentScore),
		fmt.Sprintf("%.1f", scores.ToolingScore),
		fmt.Sprintf("%.1f", scores.MOQScore),
		fmt.Sprintf("€%.2f", item.TotalCostEUR),
		fmt.Sprintf("€%.2f", item.ToolingCostEUR),
		fmt.Sprintf("€%.2f", item.UnitCostAvgEUR),
		e.priceSummary(item.PriceBreakdownEUR),
		item.OriginalCurrency,
		fmt.Sprintf("%.2f %s", item.TotalCostOriginal, item.OriginalCurrency),
		item.Incoterms,
		item.DeliveryTerms,
		item.LeadTime,
		floatOrNA(item.LeadTimeWeeks),
		item.PaymentTerms,
		intOrNA(item.PaymentDays),
		intOrNA(item.MOQ),
		item.QuotationDate,
		joinYears(item.YearsCovered),
	}
}

// priceSummary компактная строка динамики цены: первая и последняя
// годовая цена со стрелкой тренда и процентом изменения
func (e *Exporter) priceSummary(breakdown map[int]YearBreakdown) string {
	if len(breakdown) == 0 {
		return NotAvailable
	}

	years := make([]int, 0, len(breakdown))
	for year := range breakdown {
		years = append(years, year)
	}
	sort.Ints(years)

	if len(years) == 1 {
		return fmt.Sprintf("%d: €%.2f", years[0], breakdown[years[0]].UnitPrice)
	}

	first := breakdown[years[0]].UnitPrice
	last := breakdown[years[len(years)-1]].UnitPrice

	trend := "→"
	if last < first {
		trend = "↓"
	} else if last > first {
		trend = "↑"
	}

	change := 0.0
	if first > 0 {
		change = (first - last) / first * 100
		if change < 0 {
			change = -change
		}
	}

	return fmt.Sprintf("%d: €%.2f → %d: €%.2f (%s %.1f%%)",
		years[0], first, years[len(years)-1], last, trend, change)
}

// writeRecommendationSheet лист с рекомендацией
func (e *Exporter) writeRecommendationSheet(f *excelize.File, headerStyle int, rec *Recommendation) error {
	const sheetName = "Recommendation"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create recommendation sheet: %w", err)
	}

	rows := [][]string{
		{"Section", "Details"},
		{"Recommended Supplier", orNA(rec.RecommendedSupplier)},
		{"Total Score", fmt.Sprintf("%.1f/100", rec.TotalScore)},
		{"Reasoning", orNA(rec.Reasoning)},
		{"Key Advantages", orNA(strings.Join(rec.KeyAdvantages, "; "))},
		{"Considerations", orNA(strings.Join(rec.Considerations, "; "))},
	}
	if rec.MissingDataImpact != "" {
		rows = append(rows, []string{"Missing Data Impact", rec.MissingDataImpact})
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			f.SetCellValue(sheetName, cell, value)
			if rowIdx == 0 {
				f.SetCellStyle(sheetName, cell, cell, headerStyle)
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 80)
	return nil
}

// writeSummarySheet лист со сводкой по когорте
func (e *Exporter) writeSummarySheet(f *excelize.File, headerStyle int, result *Result) error {
	const sheetName = "Summary"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summary := result.Summary
	recScore := 0.0
	if result.Recommendation != nil {
		recScore = result.Recommendation.TotalScore
	}

	rows := [][]string{
		{"Metric", "Value"},
		{"Total Suppliers", strconv.Itoa(summary.TotalSuppliers)},
		{"Recommended Supplier (Highest Score)", orNA(summary.BestSupplier)},
		{"Total Score", fmt.Sprintf("%.1f/100", recScore)},
		{"Lowest Total Cost (EUR)", fmt.Sprintf("€%.2f", summary.LowestCost)},
		{"Highest Total Cost (EUR)", fmt.Sprintf("€%.2f", summary.HighestCost)},
		{"Cost Range (EUR)", fmt.Sprintf("€%.2f", summary.CostRange)},
		{"Scoring Methodology", "Weighted scoring: TCO(35%) + Delivery(25%) + Payment(20%) + Tooling(10%) + MOQ(10%)"},
		{"Generated At", orNA(result.GeneratedAt)},
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			f.SetCellValue(sheetName, cell, value)
			if rowIdx == 0 {
				f.SetCellStyle(sheetName, cell, cell, headerStyle)
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 40)
	f.SetColWidth(sheetName, "B", "B", 80)
	return nil
}

func floatOrNA(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intOrNA(v *int) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.Itoa(*v)
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, year := range years {
		parts[i] = strconv.Itoa(year)
	}
	return strings.Join(parts, ", ")
}
