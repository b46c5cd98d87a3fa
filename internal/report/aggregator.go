package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"lapakpos/backend/internal/domain"
)

const (
	PeriodToday     = "today"
	PeriodThisWeek  = "this_week"
	PeriodThisMonth = "this_month"
	PeriodCustom    = "custom"
)

// Range is a resolved half-open interval [From, To) plus the period
// label that produced it. Histograms key off the label: hourly buckets
// exist only for today, daily buckets only for this_week.
type Range struct {
	Period string    `json:"period"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// ResolveRange turns a period label into concrete bounds in the given
// location. Custom ranges are normalized to whole days: start of the
// start day through end of the end day.
func ResolveRange(period string, start, end time.Time, now time.Time, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch period {
	case PeriodToday:
		return Range{Period: period, From: dayStart, To: dayStart.AddDate(0, 0, 1)}, nil
	case PeriodThisWeek:
		// Week starts Monday.
		offset := (int(now.Weekday()) + 6) % 7
		weekStart := dayStart.AddDate(0, 0, -offset)
		return Range{Period: period, From: weekStart, To: weekStart.AddDate(0, 0, 7)}, nil
	case PeriodThisMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return Range{Period: period, From: monthStart, To: monthStart.AddDate(0, 1, 0)}, nil
	case PeriodCustom:
		if end.Before(start) {
			return Range{}, fmt.Errorf("custom range: end before start")
		}
		start = start.In(loc)
		end = end.In(loc)
		from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		return Range{Period: period, From: from, To: to}, nil
	default:
		return Range{}, fmt.Errorf("unknown report period %q", period)
	}
}

// ProductStat is one product's sales rollup within a range.
type ProductStat struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	QuantitySold  float64 `json:"quantity_sold"`
	RevenueCents  int64   `json:"revenue_cents"`
	firstSeenRank int
}

// CashierStat is one operator's performance rollup, keyed by email.
type CashierStat struct {
	Email               string  `json:"email"`
	Name                string  `json:"name"`
	SalesCents          int64   `json:"sales_cents"`
	TransactionCount    int     `json:"transaction_count"`
	UnitsSold           float64 `json:"units_sold"`
	AvgTransactionCents int64   `json:"avg_transaction_cents"`
	firstSeenRank       int
}

// Summary is the full analytics rollup for one shop and range. Building
// it is a pure derivation over collection snapshots; calling it twice
// on the same inputs yields identical output.
type Summary struct {
	Range               Range         `json:"range"`
	TotalSalesCents     int64         `json:"total_sales_cents"`
	TransactionCount    int           `json:"transaction_count"`
	AvgTransactionCents int64         `json:"avg_transaction_cents"`
	TopSellers          []ProductStat `json:"top_sellers"`
	LowSellers          []ProductStat `json:"low_sellers"`
	Cashiers            []CashierStat `json:"cashiers"`
	Hourly              []int64       `json:"hourly,omitempty"`
	Daily               []int64       `json:"daily,omitempty"`
	GRNCount            int           `json:"grn_count"`
	GRNTotalCents       int64         `json:"grn_total_cents"`
	ReturnsCount        int           `json:"returns_count"`
	ReturnsTotalCents   int64         `json:"returns_total_cents"`
	Bills               []domain.Bill `json:"bills,omitempty"`
}

// BuildSummary aggregates pre-filtered collections into a Summary. The
// inputs must already be restricted to the range (use ledger ListRange)
// and to one shop's collections.
func BuildSummary(r Range, bills []domain.Bill, grns []domain.GRN, returns []domain.Return, loc *time.Location) Summary {
	if loc == nil {
		loc = time.Local
	}

	s := Summary{Range: r, Bills: bills}

	products := make(map[string]*ProductStat)
	cashiers := make(map[string]*CashierStat)

	var hourly [24]int64
	var daily [7]int64

	for _, bill := range bills {
		s.TotalSalesCents += bill.TotalCents
		s.TransactionCount++

		local := bill.CreatedAt.In(loc)
		hourly[local.Hour()] += bill.TotalCents
		daily[(int(local.Weekday())+6)%7] += bill.TotalCents

		var units float64
		for _, line := range bill.Items {
			stat, ok := products[line.ProductID]
			if !ok {
				stat = &ProductStat{
					ProductID:     line.ProductID,
					Name:          line.Name,
					firstSeenRank: len(products),
				}
				products[line.ProductID] = stat
			}
			stat.QuantitySold += line.Quantity
			stat.RevenueCents += int64(math.Round(float64(line.PriceCents) * line.Quantity))
			units += line.Quantity
		}

		email := bill.Cashier.Email
		cstat, ok := cashiers[email]
		if !ok {
			cstat = &CashierStat{
				Email:         email,
				Name:          bill.Cashier.Name,
				firstSeenRank: len(cashiers),
			}
			cashiers[email] = cstat
		}
		cstat.SalesCents += bill.TotalCents
		cstat.TransactionCount++
		cstat.UnitsSold += units
	}

	if s.TransactionCount > 0 {
		s.AvgTransactionCents = int64(math.Round(float64(s.TotalSalesCents) / float64(s.TransactionCount)))
	}

	s.TopSellers, s.LowSellers = rankProducts(products)
	s.Cashiers = rankCashiers(cashiers)

	switch r.Period {
	case PeriodToday:
		s.Hourly = hourly[:]
	case PeriodThisWeek:
		s.Daily = daily[:]
	}

	for _, g := range grns {
		s.GRNCount++
		s.GRNTotalCents += g.TotalValueCents
	}
	for _, ret := range returns {
		s.ReturnsCount++
		s.ReturnsTotalCents += ret.TotalValueCents
	}

	return s
}

// rankProducts sorts by quantity, ties holding their first-seen order.
func rankProducts(products map[string]*ProductStat) (top, low []ProductStat) {
	ordered := make([]ProductStat, 0, len(products))
	for _, stat := range products {
		ordered = append(ordered, *stat)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].firstSeenRank < ordered[j].firstSeenRank
	})

	top = make([]ProductStat, len(ordered))
	copy(top, ordered)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].QuantitySold > top[j].QuantitySold
	})

	low = make([]ProductStat, len(ordered))
	copy(low, ordered)
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].QuantitySold < low[j].QuantitySold
	})
	return top, low
}

func rankCashiers(cashiers map[string]*CashierStat) []CashierStat {
	ordered := make([]CashierStat, 0, len(cashiers))
	for _, stat := range cashiers {
		s := *stat
		if s.TransactionCount > 0 {
			s.AvgTransactionCents = int64(math.Round(float64(s.SalesCents) / float64(s.TransactionCount)))
		}
		ordered = append(ordered, s)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].firstSeenRank < ordered[j].firstSeenRank
	})
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SalesCents > ordered[j].SalesCents
	})
	return ordered
}
