package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/workbook"
	"github.com/xuri/excelize/v2"
)

// TableSource is the raw sheet access the exports need
type TableSource interface {
	Tables() []string
	Schema(table string) (models.TableSchema, error)
	Read(ctx context.Context, table string) ([][]string, error)
}

type ExportService struct {
	source    TableSource
	dashboard *DashboardService
}

func NewExportService(source TableSource, dashboard *DashboardService) *ExportService {
	return &ExportService{source: source, dashboard: dashboard}
}

// TableCSV renders one sheet, header first, exactly as stored
func (s *ExportService) TableCSV(ctx context.Context, table string) ([]byte, string, error) {
	schema, rows, err := s.sheet(ctx, table)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	if err := writer.WriteAll(append([][]string{schema.Columns}, rows...)); err != nil {
		return nil, "", fmt.Errorf("failed to write csv: %w", err)
	}

	return buf.Bytes(), fmt.Sprintf("%s.csv", table), nil
}

// WorkbookXLSX copies every sheet into a fresh workbook
func (s *ExportService) WorkbookXLSX(ctx context.Context) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	for i, table := range s.source.Tables() {
		schema, rows, err := s.sheet(ctx, table)
		if err != nil {
			return nil, "", err
		}

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), table); err != nil {
				return nil, "", fmt.Errorf("failed to name sheet %s: %w", table, err)
			}
		} else if _, err := f.NewSheet(table); err != nil {
			return nil, "", fmt.Errorf("failed to create sheet %s: %w", table, err)
		}

		header := schema.Columns
		if err := f.SetSheetRow(table, "A1", &header); err != nil {
			return nil, "", err
		}
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellStyle(table, "A1", last, headerStyle); err != nil {
			return nil, "", fmt.Errorf("failed to style header of %s: %w", table, err)
		}

		for r, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, "", err
			}
			values := row
			if err := f.SetSheetRow(table, cell, &values); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("sitetrack_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// DashboardPDF prints both summaries
func (s *ExportService) DashboardPDF(ctx context.Context) ([]byte, string, error) {
	sites, err := s.dashboard.SiteSummary(ctx)
	if err != nil {
		return nil, "", err
	}
	engineers, err := s.dashboard.EngineerSummary(ctx)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Construction Dashboard")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Site Summary")
	pdf.Ln(10)
	pdfTable(pdf, []string{"Site", "Location", "Status", "Total Spent"}, []float64{80, 80, 40, 40}, 3, len(sites), func(i int) []string {
		st := sites[i]
		return []string{st.SiteName, st.Location, st.Status, models.FormatAmount(st.TotalSpent)}
	})
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Engineer Summary")
	pdf.Ln(10)
	pdfTable(pdf, []string{"Engineer", "Role", "Allocated", "Spent", "Balance"}, []float64{80, 50, 40, 40, 40}, 2, len(engineers), func(i int) []string {
		e := engineers[i]
		return []string{e.Name, e.Role, models.FormatAmount(e.TotalAlloc), models.FormatAmount(e.TotalSpent), models.FormatAmount(e.Balance)}
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("dashboard_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) sheet(ctx context.Context, table string) (models.TableSchema, [][]string, error) {
	schema, err := s.source.Schema(table)
	if err != nil {
		return models.TableSchema{}, nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	rows, err := s.source.Read(ctx, table)
	if err != nil {
		return models.TableSchema{}, nil, err
	}
	return schema, rows, nil
}

// pdfTable draws a bordered table; columns from amountsFrom on are right aligned
func pdfTable(pdf *gofpdf.Fpdf, header []string, widths []float64, amountsFrom, n int, row func(int) []string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(224, 224, 224)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 9)
	for r := 0; r < n; r++ {
		for i, v := range row(r) {
			align := "L"
			if i >= amountsFrom {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

var _ TableSource = (*workbook.Store)(nil)
