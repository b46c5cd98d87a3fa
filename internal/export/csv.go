package export

import (
	"fmt"
	"strings"

	"lapakpos/backend/internal/report"
)

// SummaryCSV flattens a report summary into section,key,value rows. The
// shape is deliberately narrow so spreadsheet imports and shell tooling
// both handle it without a dialect argument.
func SummaryCSV(s report.Summary) string {
	lines := []string{
		"section,key,value",
		fmt.Sprintf("summary,period,%s", s.Range.Period),
		fmt.Sprintf("summary,from,%s", s.Range.From.Format("2006-01-02")),
		fmt.Sprintf("summary,to,%s", s.Range.To.Format("2006-01-02")),
		fmt.Sprintf("summary,total_sales_cents,%d", s.TotalSalesCents),
		fmt.Sprintf("summary,transactions,%d", s.TransactionCount),
		fmt.Sprintf("summary,avg_transaction_cents,%d", s.AvgTransactionCents),
		fmt.Sprintf("summary,grn_count,%d", s.GRNCount),
		fmt.Sprintf("summary,grn_total_cents,%d", s.GRNTotalCents),
		fmt.Sprintf("summary,returns_count,%d", s.ReturnsCount),
		fmt.Sprintf("summary,returns_total_cents,%d", s.ReturnsTotalCents),
	}
	for _, stat := range s.TopSellers {
		lines = append(lines, fmt.Sprintf("top_seller,%s,%g", csvField(stat.Name), stat.QuantitySold))
	}
	for _, stat := range s.LowSellers {
		lines = append(lines, fmt.Sprintf("low_seller,%s,%g", csvField(stat.Name), stat.QuantitySold))
	}
	for _, stat := range s.Cashiers {
		lines = append(lines, fmt.Sprintf("cashier,%s_sales_cents,%d", csvField(stat.Email), stat.SalesCents))
		lines = append(lines, fmt.Sprintf("cashier,%s_transactions,%d", csvField(stat.Email), stat.TransactionCount))
	}
	for hour, total := range s.Hourly {
		lines = append(lines, fmt.Sprintf("hourly,%02d,%d", hour, total))
	}
	for day, total := range s.Daily {
		lines = append(lines, fmt.Sprintf("daily,%d,%d", day, total))
	}
	for _, bill := range s.Bills {
		lines = append(lines, fmt.Sprintf("bill,%s,%d", bill.BillNumber, bill.TotalCents))
	}
	return strings.Join(lines, "\n") + "\n"
}

// csvField strips separators out of free-text values so a product name
// containing a comma cannot shift columns.
func csvField(value string) string {
	value = strings.ReplaceAll(value, ",", " ")
	return strings.ReplaceAll(value, "\n", " ")
}
