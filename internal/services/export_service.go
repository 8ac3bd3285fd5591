package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/jcastellanos/prestamos-api/internal/models"
)

// ExportService renders the analytics dashboard as downloadable files
type ExportService struct {
	analyticsSvc *AnalyticsService
}

func NewExportService(analyticsSvc *AnalyticsService) *ExportService {
	return &ExportService{analyticsSvc: analyticsSvc}
}

// statusLabels translates loan statuses for report output
var statusLabels = map[string]string{
	models.LoanStatusPending: "Pendiente",
	models.LoanStatusOverdue: "Atrasado",
	models.LoanStatusPaid:    "Pagado",
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func (s *ExportService) ExportCSV(ctx context.Context, overview *models.PortfolioOverview, dist []models.StatusSlice) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	// Header
	_ = writer.Write([]string{"Reporte de Cartera", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	// Overview section
	_ = writer.Write([]string{"Resumen General"})
	_ = writer.Write([]string{"Métrica", "Valor"})
	_ = writer.Write([]string{"Préstamos Totales", fmt.Sprintf("%d", overview.TotalLoans)})
	_ = writer.Write([]string{"Préstamos Activos", fmt.Sprintf("%d", overview.ActiveLoans)})
	_ = writer.Write([]string{"Préstamos Atrasados", fmt.Sprintf("%d", overview.OverdueLoans)})
	_ = writer.Write([]string{"Monto Prestado", fmt.Sprintf("%.2f", overview.TotalLent)})
	_ = writer.Write([]string{"Monto Recaudado", fmt.Sprintf("%.2f", overview.TotalCollected)})
	_ = writer.Write([]string{"Saldo Pendiente", fmt.Sprintf("%.2f", overview.TotalOutstanding)})
	_ = writer.Write([]string{""})

	// Distribution section
	_ = writer.Write([]string{"Distribución por Estado"})
	_ = writer.Write([]string{"Estado", "Cantidad", "Monto"})
	for _, slice := range dist {
		_ = writer.Write([]string{statusLabel(slice.Status), fmt.Sprintf("%d", slice.Count), fmt.Sprintf("%.2f", slice.TotalAmount)})
	}

	writer.Flush()

	filename := fmt.Sprintf("reporte_cartera_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, overview *models.PortfolioOverview, dist []models.StatusSlice) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cartera"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Reporte de Cartera")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Resumen General")
	_ = f.SetCellValue(sheet, "A4", "Métrica")
	_ = f.SetCellValue(sheet, "B4", "Valor")

	_ = f.SetCellValue(sheet, "A5", "Préstamos Totales")
	_ = f.SetCellValue(sheet, "B5", overview.TotalLoans)
	_ = f.SetCellValue(sheet, "A6", "Préstamos Activos")
	_ = f.SetCellValue(sheet, "B6", overview.ActiveLoans)
	_ = f.SetCellValue(sheet, "A7", "Préstamos Atrasados")
	_ = f.SetCellValue(sheet, "B7", overview.OverdueLoans)
	_ = f.SetCellValue(sheet, "A8", "Monto Prestado")
	_ = f.SetCellValue(sheet, "B8", overview.TotalLent)
	_ = f.SetCellValue(sheet, "A9", "Monto Recaudado")
	_ = f.SetCellValue(sheet, "B9", overview.TotalCollected)
	_ = f.SetCellValue(sheet, "A10", "Saldo Pendiente")
	_ = f.SetCellValue(sheet, "B10", overview.TotalOutstanding)

	_ = f.SetCellValue(sheet, "A12", "Distribución por Estado")
	_ = f.SetCellValue(sheet, "A13", "Estado")
	_ = f.SetCellValue(sheet, "B13", "Cantidad")
	_ = f.SetCellValue(sheet, "C13", "Monto")

	row := 14
	for _, slice := range dist {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), statusLabel(slice.Status))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), slice.Count)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), slice.TotalAmount)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("reporte_cartera_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportPDF(ctx context.Context, overview *models.PortfolioOverview, dist []models.StatusSlice) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Reporte de Cartera")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Resumen General")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Prestamos Totales:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", overview.TotalLoans))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Prestamos Activos:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", overview.ActiveLoans))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Prestamos Atrasados:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", overview.OverdueLoans))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Monto Prestado:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f HNL", overview.TotalLent))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Monto Recaudado:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f HNL", overview.TotalCollected))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Saldo Pendiente:")
	pdf.Cell(40, 10, fmt.Sprintf("%.2f HNL", overview.TotalOutstanding))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Distribucion por Estado")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, slice := range dist {
		pdf.Cell(60, 10, statusLabel(slice.Status)+":")
		pdf.Cell(40, 10, fmt.Sprintf("%d (%.2f HNL)", slice.Count, slice.TotalAmount))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	err := pdf.Output(buf)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("reporte_cartera_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
