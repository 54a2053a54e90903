package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/AngelCh415/terrafedash/internal/filter"
	"github.com/AngelCh415/terrafedash/internal/format"
	"github.com/AngelCh415/terrafedash/internal/models"
)

// Report is the revenue-versus-marketing view of one segment, or of the whole
// dataset when BusinessLine is empty.
type Report struct {
	BusinessLine models.BusinessLine      `json:"tipo,omitempty"`
	Orders       models.OrdersSummary     `json:"pedidos"`
	Ads          models.AdsSummary        `json:"campanhas"`
	Revenue      decimal.Decimal          `json:"receita"`
	Spend        decimal.Decimal          `json:"investimento"`
	ROI          models.Percent           `json:"roi"`
	Campaigns    []models.CampaignSegment `json:"campanhas_por_tipo"`
	TopProducts  []models.ProductRow      `json:"produtos_mais_vendidos"`
	Display      Display                  `json:"display"`
}

// Display carries pre-formatted values; undefined figures read "N/A".
type Display struct {
	Revenue           string `json:"total_vendas"`
	Orders            string `json:"total_pedidos"`
	AverageOrderValue string `json:"ticket_medio"`
	UnitsSold         string `json:"produtos_vendidos"`
	Spend             string `json:"investimento"`
	ROI               string `json:"roi"`
	CTR               string `json:"ctr"`
	ConversionRate    string `json:"taxa_conversao"`
	Impressions       string `json:"impressoes"`
	Clicks            string `json:"cliques"`
}

// BuildReport summarises orders and campaigns for line (nil means all lines).
// topN bounds TopProducts; n <= 0 keeps every product.
func BuildReport(orders []models.OrderLine, ads []models.CampaignRecord, line *models.BusinessLine, topN int) (Report, error) {
	var err error
	if line != nil {
		if orders, err = ordersOf(orders, *line); err != nil {
			return Report{}, err
		}
		if ads, err = adsOf(ads, *line); err != nil {
			return Report{}, err
		}
	}
	os := SummarizeOrders(orders)
	as := SummarizeAds(ads)

	r := Report{
		Orders:      os,
		Ads:         as,
		Revenue:     os.TotalRevenue,
		Spend:       as.TotalSpend,
		ROI:         ROI(os.TotalRevenue, as.TotalSpend),
		Campaigns:   CampaignSegments(ads),
		TopProducts: TopProducts(orders, topN),
	}
	if line != nil {
		r.BusinessLine = *line
	}
	r.Display = Display{
		Revenue:           format.Currency(os.TotalRevenue),
		Orders:            format.Count(int64(os.TotalOrders)),
		AverageOrderValue: format.NullCurrency(os.AverageOrderValue),
		UnitsSold:         format.Count(os.UnitsSold),
		Spend:             format.Currency(as.TotalSpend),
		ROI:               format.Percent(r.ROI),
		CTR:               format.Rate(as.CTR),
		ConversionRate:    format.Rate(as.ConversionRate),
		Impressions:       format.Count(as.TotalImpressions),
		Clicks:            format.Count(as.TotalClicks),
	}
	return r, nil
}

func ordersOf(rows []models.OrderLine, line models.BusinessLine) ([]models.OrderLine, error) {
	return filter.Equals(rows, "tipo_venda", string(line))
}

func adsOf(rows []models.CampaignRecord, line models.BusinessLine) ([]models.CampaignRecord, error) {
	return filter.Equals(rows, "tipo_campanha", string(line))
}
