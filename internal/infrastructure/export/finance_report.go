// Package export renders finance reports as downloadable files.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/irenerossetti/condominio-backend/internal/domain/report"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts xlsx or pdf in any case
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatXLSX:
		return FormatXLSX, true
	case FormatPDF:
		return FormatPDF, true
	}
	return "", false
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// File is a rendered export
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FinanceReportExporter renders finance reports
type FinanceReportExporter struct {
	now func() time.Time
}

// NewFinanceReportExporter creates a new FinanceReportExporter
func NewFinanceReportExporter() *FinanceReportExporter {
	return &FinanceReportExporter{now: time.Now}
}

// Export renders rep in the given format
func (e *FinanceReportExporter) Export(rep *report.FinanceReport, format Format) (*File, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatXLSX:
		data, err = BuildFinanceReportXLSX(rep)
	case FormatPDF:
		data, err = BuildFinanceReportPDF(rep, e.now())
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", format, err)
	}
	return &File{
		Name:        fmt.Sprintf("finance-report-%s.%s", rangeLabel(rep.Filter), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// rangeLabel names the exported period range, e.g. 2025-01_2025-06
func rangeLabel(filter report.Filter) string {
	from, to := "start", "end"
	if filter.From != nil {
		from = filter.From.String()
	}
	if filter.To != nil {
		to = filter.To.String()
	}
	if filter.From == nil && filter.To == nil {
		return "all"
	}
	return from + "_" + to
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// moneyFloat is for spreadsheet cells, which hold numbers
func moneyFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

const (
	summarySheet = "summary"
	periodSheet  = "by_period"
	typeSheet    = "by_type"
)

// BuildFinanceReportXLSX renders a workbook with one sheet per breakdown
func BuildFinanceReportXLSX(rep *report.FinanceReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(periodSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(typeSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Finance Report")
	_ = f.SetCellValue(summarySheet, "A3", "Range")
	_ = f.SetCellValue(summarySheet, "B3", rangeLabel(rep.Filter))
	_ = f.SetCellValue(summarySheet, "A4", "Issued")
	_ = f.SetCellValue(summarySheet, "B4", moneyFloat(rep.Overall.Issued))
	_ = f.SetCellValue(summarySheet, "A5", "Paid")
	_ = f.SetCellValue(summarySheet, "B5", moneyFloat(rep.Overall.Paid))
	_ = f.SetCellValue(summarySheet, "A6", "Outstanding")
	_ = f.SetCellValue(summarySheet, "B6", moneyFloat(rep.Overall.Outstanding))
	_ = f.SetCellValue(summarySheet, "A7", "Fees")
	_ = f.SetCellValue(summarySheet, "B7", rep.Overall.Count)

	writeHeader(f, periodSheet, "Period", "Issued", "Paid", "Outstanding", "Fees")
	for i, row := range rep.ByPeriod {
		writeRow(f, periodSheet, i+2, row.Period, row.Totals)
	}

	writeHeader(f, typeSheet, "Expense type", "Issued", "Paid", "Outstanding", "Fees")
	for i, row := range rep.ByType {
		writeRow(f, typeSheet, i+2, row.ExpenseTypeName, row.Totals)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, titles ...string) {
	for i, title := range titles {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
}

func writeRow(f *excelize.File, sheet string, row int, label string, totals report.Totals) {
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label)
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), moneyFloat(totals.Issued))
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), moneyFloat(totals.Paid))
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), moneyFloat(totals.Outstanding))
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), totals.Count)
}

// BuildFinanceReportPDF renders a one-document summary with both breakdowns
func BuildFinanceReportPDF(rep *report.FinanceReport, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Finance Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Range: %s", rangeLabel(rep.Filter)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(8)
	pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", money(rep.Overall.Issued)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Paid: %s", money(rep.Overall.Paid)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Outstanding: %s", money(rep.Overall.Outstanding)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Fees: %d", rep.Overall.Count))
	pdf.Ln(10)

	pdfTable(pdf, "Period", len(rep.ByPeriod), func(i int) (string, report.Totals) {
		return rep.ByPeriod[i].Period, rep.ByPeriod[i].Totals
	})
	pdf.Ln(6)
	pdfTable(pdf, "Expense type", len(rep.ByType), func(i int) (string, report.Totals) {
		return rep.ByType[i].ExpenseTypeName, rep.ByType[i].Totals
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pdfTable(pdf *gofpdf.Fpdf, label string, n int, row func(int) (string, report.Totals)) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, label, "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Issued", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Paid", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Outstanding", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Fees", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for i := 0; i < n; i++ {
		name, totals := row(i)
		pdf.CellFormat(50, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, money(totals.Issued), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, money(totals.Paid), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, money(totals.Outstanding), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", totals.Count), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}
