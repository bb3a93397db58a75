package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"invoice-recon/internal/entity"
)

// SummarySheet and DetailSheet are the workbook sheet names.
const (
	SummarySheet = "Summary"
	DetailSheet  = "Comparison"
)

// Service renders a run report as XLSX bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportRunXLSX returns an XLSX workbook (as bytes) for a completed run:
// a Summary sheet with per-pair verdicts and run totals, and a Comparison
// sheet with one row per compared field per pair plus one row per unmatched
// document and per extraction failure.
func (s *Service) ExportRunXLSX(report *entity.RunReport) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), SummarySheet)
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(SummarySheet); err == nil {
		f.SetActiveSheet(index)
	}

	if err := s.writeSummary(f, report); err != nil {
		return nil, err
	}
	rows, err := s.writeDetail(f, report)
	if err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"run_id", report.ID.String(),
		"rows", rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeSummary(f *excelize.File, report *entity.RunReport) error {
	headers := []string{"Document #", "Invoice", "Purchase Order", "Strategy", "Verdict"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SummarySheet, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(SummarySheet, cell, v)
	}
	for _, res := range report.Results {
		write(1, res.Key)
		write(2, res.InvoiceFile)
		write(3, res.POFile)
		write(4, res.Strategy)
		write(5, string(res.Verdict))
		row++
	}

	// Run totals below the pair table.
	row++
	totals := []struct {
		label string
		value int
	}{
		{"Files", report.Stats.TotalFiles},
		{"Extracted", report.Stats.Extracted},
		{"Extraction errors", report.Stats.ExtractionErrs},
		{"Pairs", report.Stats.Pairs},
		{"Unmatched", report.Stats.Unmatched},
		{"Passed", report.Stats.Passed},
		{"Failed", report.Stats.Failed},
	}
	for _, t := range totals {
		write(1, t.label)
		write(2, t.value)
		row++
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 12)
	_ = f.SetColWidth(SummarySheet, "B", "C", 36)
	_ = f.SetColWidth(SummarySheet, "D", "D", 24)
	_ = f.SetColWidth(SummarySheet, "E", "E", 10)
	return nil
}

func (s *Service) writeDetail(f *excelize.File, report *entity.RunReport) (int, error) {
	headers := []string{
		"Document #",
		"Invoice File",
		"PO File",
		"Field",
		"Invoice Value",
		"PO Value",
		"Delta",
		"Status",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(DetailSheet, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(DetailSheet, cell, v)
	}

	for _, res := range report.Results {
		for _, fc := range res.Fields {
			write(1, res.Key)
			write(2, res.InvoiceFile)
			write(3, res.POFile)
			write(4, fc.Field)
			write(5, amountCell(fc.InvoiceValue))
			write(6, amountCell(fc.POValue))
			write(7, amountCell(fc.Delta))
			write(8, string(fc.Status))
			row++
		}
	}

	for _, u := range report.Unmatched {
		write(1, u.Document.DocumentNumber)
		if u.Document.Type == entity.DocTypePurchaseOrder {
			write(3, u.Document.Filename)
		} else {
			write(2, u.Document.Filename)
		}
		write(8, string(u.Reason))
		row++
	}

	for _, fail := range report.Failures {
		write(2, fail.Filename)
		write(8, fmt.Sprintf("extraction failed: %s", fail.Kind))
		row++
	}

	_ = f.SetColWidth(DetailSheet, "A", "A", 12)
	_ = f.SetColWidth(DetailSheet, "B", "C", 36)
	_ = f.SetColWidth(DetailSheet, "D", "D", 14)
	_ = f.SetColWidth(DetailSheet, "E", "G", 14)
	_ = f.SetColWidth(DetailSheet, "H", "H", 28)
	return row - 1, nil
}

func amountCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
