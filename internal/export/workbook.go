package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"lapakpos/backend/internal/report"
)

// SummaryWorkbook renders a report summary as a multi-sheet XLSX
// workbook: Summary, Sales Detail, Returns, GRN, Top Products, Low
// Products and Cashier Performance.
func SummaryWorkbook(s report.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, s); err != nil {
		return nil, err
	}
	if err := writeSalesDetailSheet(f, s); err != nil {
		return nil, err
	}
	if err := writeRollupSheet(f, "Returns", [][]any{
		{"Returns", s.ReturnsCount},
		{"Total Value (cents)", s.ReturnsTotalCents},
	}); err != nil {
		return nil, err
	}
	if err := writeRollupSheet(f, "GRN", [][]any{
		{"GRNs", s.GRNCount},
		{"Total Value (cents)", s.GRNTotalCents},
	}); err != nil {
		return nil, err
	}
	if err := writeProductSheet(f, "Top Products", s.TopSellers); err != nil {
		return nil, err
	}
	if err := writeProductSheet(f, "Low Products", s.LowSellers); err != nil {
		return nil, err
	}
	if err := writeCashierSheet(f, s.Cashiers); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by Summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex("Summary")
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, s report.Summary) error {
	rows := [][]any{
		{"Period", s.Range.Period},
		{"From", s.Range.From.Format("2006-01-02")},
		{"To", s.Range.To.Format("2006-01-02")},
		{"Total Sales (cents)", s.TotalSalesCents},
		{"Transactions", s.TransactionCount},
		{"Avg Transaction (cents)", s.AvgTransactionCents},
	}
	return writeRollupSheet(f, "Summary", rows)
}

func writeSalesDetailSheet(f *excelize.File, s report.Summary) error {
	if _, err := f.NewSheet("Sales Detail"); err != nil {
		return err
	}
	header := []any{"Bill Number", "Created At", "Cashier", "Items", "Subtotal (cents)", "Discount (cents)", "Total (cents)", "Payment"}
	if err := f.SetSheetRow("Sales Detail", "A1", &header); err != nil {
		return err
	}
	for i, bill := range s.Bills {
		row := []any{
			bill.BillNumber,
			bill.CreatedAt.Format("2006-01-02 15:04:05"),
			bill.Cashier.Email,
			len(bill.Items),
			bill.SubtotalCents,
			bill.DiscountCents,
			bill.TotalCents,
			bill.Payment.Method,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow("Sales Detail", cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeProductSheet(f *excelize.File, sheet string, stats []report.ProductStat) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Product", "Quantity Sold", "Revenue (cents)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, stat := range stats {
		row := []any{stat.Name, stat.QuantitySold, stat.RevenueCents}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCashierSheet(f *excelize.File, stats []report.CashierStat) error {
	sheet := "Cashier Performance"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Cashier", "Sales (cents)", "Transactions", "Units Sold", "Avg Transaction (cents)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, stat := range stats {
		row := []any{stat.Email, stat.SalesCents, stat.TransactionCount, stat.UnitsSold, stat.AvgTransactionCents}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeRollupSheet(f *excelize.File, sheet string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}
	return nil
}
