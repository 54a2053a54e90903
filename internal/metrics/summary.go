package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/terrafedash/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Rate returns num/den*100, invalid when den is zero.
func Rate(num, den int64) models.Percent {
	if den == 0 {
		return models.Percent{}
	}
	return models.NewPercent(float64(num) / float64(den) * 100)
}

// ROI returns (value-spend)/spend*100, invalid unless spend is positive.
func ROI(value, spend decimal.Decimal) models.Percent {
	if !spend.IsPositive() {
		return models.Percent{}
	}
	return models.NewPercent(value.Sub(spend).Div(spend).Mul(hundred).InexactFloat64())
}

// pct is the dataset-level rule: a zero denominator yields 0.
func pct(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

func SummarizeOrders(rows []models.OrderLine) models.OrdersSummary {
	s := models.OrdersSummary{TotalRevenue: decimal.Zero}

	orders := map[int64]struct{}{}
	statusOrders := map[string]map[int64]struct{}{}
	byState := map[string]decimal.Decimal{}
	byCategory := map[string]decimal.Decimal{}
	byLine := map[string]decimal.Decimal{}
	byDay := map[time.Time]decimal.Decimal{}

	for _, o := range rows {
		orders[o.OrderID] = struct{}{}
		s.TotalRevenue = s.TotalRevenue.Add(o.LineTotal)
		s.UnitsSold += o.Quantity

		ids, ok := statusOrders[o.Status]
		if !ok {
			ids = map[int64]struct{}{}
			statusOrders[o.Status] = ids
		}
		ids[o.OrderID] = struct{}{}

		byState[o.State] = byState[o.State].Add(o.LineTotal)
		byCategory[string(o.Category)] = byCategory[string(o.Category)].Add(o.LineTotal)
		byLine[string(o.BusinessLine)] = byLine[string(o.BusinessLine)].Add(o.LineTotal)
		d := day(o.OrderDate)
		byDay[d] = byDay[d].Add(o.LineTotal)
	}

	s.TotalOrders = len(orders)
	if s.TotalOrders > 0 {
		s.AverageOrderValue = decimal.NewNullDecimal(s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalOrders))))
	}

	s.ByStatus = make([]models.CountRow, 0, len(statusOrders))
	for k, ids := range statusOrders {
		s.ByStatus = append(s.ByStatus, models.CountRow{Key: k, Count: int64(len(ids))})
	}
	sort.Slice(s.ByStatus, func(i, j int) bool { return s.ByStatus[i].Key < s.ByStatus[j].Key })

	s.ByState = amountRows(byState)
	s.ByCategory = amountRows(byCategory)
	s.ByBusinessLine = amountRows(byLine)

	s.ByDay = make([]models.DayAmountRow, 0, len(byDay))
	for d, v := range byDay {
		s.ByDay = append(s.ByDay, models.DayAmountRow{Date: d, Value: v})
	}
	sort.Slice(s.ByDay, func(i, j int) bool { return s.ByDay[i].Date.Before(s.ByDay[j].Date) })
	return s
}

func SummarizeAds(rows []models.CampaignRecord) models.AdsSummary {
	s := models.AdsSummary{TotalSpend: decimal.Zero}
	sumCPM, sumCPC := decimal.Zero, decimal.Zero
	spend := map[string]decimal.Decimal{}
	conv := map[string]int64{}

	for _, c := range rows {
		s.TotalSpend = s.TotalSpend.Add(c.AmountSpent)
		s.TotalImpressions += c.Impressions
		s.TotalClicks += c.Clicks
		s.TotalConversions += c.CartAdditions
		sumCPM = sumCPM.Add(c.CPM)
		sumCPC = sumCPC.Add(c.CPC)
		spend[string(c.BusinessLine)] = spend[string(c.BusinessLine)].Add(c.AmountSpent)
		conv[string(c.BusinessLine)] += c.CartAdditions
	}

	s.CTR = pct(s.TotalClicks, s.TotalImpressions)
	s.ConversionRate = pct(s.TotalConversions, s.TotalClicks)
	if n := len(rows); n > 0 {
		s.MeanCPM = decimal.NewNullDecimal(sumCPM.Div(decimal.NewFromInt(int64(n))))
		s.MeanCPC = decimal.NewNullDecimal(sumCPC.Div(decimal.NewFromInt(int64(n))))
	}

	s.SpendByBusinessLine = amountRows(spend)
	s.ConversionsByBusinessLine = make([]models.CountRow, 0, len(conv))
	for k, v := range conv {
		s.ConversionsByBusinessLine = append(s.ConversionsByBusinessLine, models.CountRow{Key: k, Count: v})
	}
	sort.Slice(s.ConversionsByBusinessLine, func(i, j int) bool {
		return s.ConversionsByBusinessLine[i].Key < s.ConversionsByBusinessLine[j].Key
	})
	return s
}

// CampaignSegments aggregates campaigns per business line. Segment ratios are
// guarded: a zero denominator gives an invalid Percent, not 0.
func CampaignSegments(rows []models.CampaignRecord) []models.CampaignSegment {
	idx := map[models.BusinessLine]int{}
	var out []models.CampaignSegment
	for _, c := range rows {
		i, ok := idx[c.BusinessLine]
		if !ok {
			i = len(out)
			idx[c.BusinessLine] = i
			out = append(out, models.CampaignSegment{BusinessLine: c.BusinessLine, Spend: decimal.Zero})
		}
		seg := &out[i]
		seg.Spend = seg.Spend.Add(c.AmountSpent)
		seg.Clicks += c.Clicks
		seg.Impressions += c.Impressions
		seg.CartAdditions += c.CartAdditions
	}
	for i := range out {
		out[i].CTR = Rate(out[i].Clicks, out[i].Impressions)
		out[i].ConversionRate = Rate(out[i].CartAdditions, out[i].Clicks)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusinessLine < out[j].BusinessLine })
	return out
}

// TopProducts groups lines by product name and returns the n best sellers by
// revenue. n <= 0 returns every product.
func TopProducts(rows []models.OrderLine, n int) []models.ProductRow {
	idx := map[string]int{}
	out := []models.ProductRow{}
	for _, o := range rows {
		i, ok := idx[o.ProductName]
		if !ok {
			i = len(out)
			idx[o.ProductName] = i
			out = append(out, models.ProductRow{Name: o.ProductName, Revenue: decimal.Zero})
		}
		out[i].Quantity += o.Quantity
		out[i].Revenue = out[i].Revenue.Add(o.LineTotal)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return TopN(out, n)
}

// SortAmountsDesc returns a copy ordered by value, largest first.
func SortAmountsDesc(rows []models.AmountRow) []models.AmountRow {
	out := append([]models.AmountRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value.Cmp(out[j].Value) > 0 })
	return out
}

func TopN[T any](rows []T, n int) []T {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// SortOrdersByDateDesc returns a copy, newest first; time breaks ties.
func SortOrdersByDateDesc(rows []models.OrderLine) []models.OrderLine {
	out := append([]models.OrderLine(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].OrderTime > out[j].OrderTime
	})
	return out
}

func amountRows(m map[string]decimal.Decimal) []models.AmountRow {
	out := make([]models.AmountRow, 0, len(m))
	for k, v := range m {
		out = append(out, models.AmountRow{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
