package report

import "math"

// ShopSummary pairs a shop's identity with its own figures so per-shop
// tables survive alongside the merged view.
type ShopSummary struct {
	ShopID   string  `json:"shop_id"`
	ShopName string  `json:"shop_name"`
	Summary  Summary `json:"summary"`
}

// MultiShopSummary is per-shop rollups plus a grand total that sums
// every numeric field across shops.
type MultiShopSummary struct {
	Range      Range         `json:"range"`
	Shops      []ShopSummary `json:"shops"`
	GrandTotal Summary       `json:"grand_total"`
}

// MergeShops folds per-shop summaries into a grand total. Product and
// cashier stats merge by key; averages are recomputed from the merged
// totals rather than averaged.
func MergeShops(r Range, shops []ShopSummary) MultiShopSummary {
	grand := Summary{Range: r}

	products := make(map[string]*ProductStat)
	cashiers := make(map[string]*CashierStat)

	var hourly [24]int64
	var daily [7]int64
	var sawHourly, sawDaily bool

	for _, shop := range shops {
		s := shop.Summary
		grand.TotalSalesCents += s.TotalSalesCents
		grand.TransactionCount += s.TransactionCount
		grand.GRNCount += s.GRNCount
		grand.GRNTotalCents += s.GRNTotalCents
		grand.ReturnsCount += s.ReturnsCount
		grand.ReturnsTotalCents += s.ReturnsTotalCents

		for i, v := range s.Hourly {
			hourly[i] += v
			sawHourly = true
		}
		for i, v := range s.Daily {
			daily[i] += v
			sawDaily = true
		}

		for _, stat := range s.TopSellers {
			merged, ok := products[stat.ProductID]
			if !ok {
				copied := stat
				copied.firstSeenRank = len(products)
				products[stat.ProductID] = &copied
				continue
			}
			merged.QuantitySold += stat.QuantitySold
			merged.RevenueCents += stat.RevenueCents
		}

		for _, stat := range s.Cashiers {
			merged, ok := cashiers[stat.Email]
			if !ok {
				copied := stat
				copied.firstSeenRank = len(cashiers)
				cashiers[stat.Email] = &copied
				continue
			}
			merged.SalesCents += stat.SalesCents
			merged.TransactionCount += stat.TransactionCount
			merged.UnitsSold += stat.UnitsSold
		}
	}

	if grand.TransactionCount > 0 {
		grand.AvgTransactionCents = int64(math.Round(float64(grand.TotalSalesCents) / float64(grand.TransactionCount)))
	}
	grand.TopSellers, grand.LowSellers = rankProducts(products)
	grand.Cashiers = rankCashiers(cashiers)
	if sawHourly {
		grand.Hourly = hourly[:]
	}
	if sawDaily {
		grand.Daily = daily[:]
	}

	return MultiShopSummary{Range: r, Shops: shops, GrandTotal: grand}
}
