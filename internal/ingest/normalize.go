package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/terrafedash/internal/classify"
	"github.com/AngelCh415/terrafedash/internal/metrics"
	"github.com/AngelCh415/terrafedash/internal/models"
)

const (
	CampaignDateLayout = "2006-01-02"
	OrderDateLayout    = "02/01/2006"
)

var campaignColumns = []string{
	"data_inicio", "data_fim", "nome_campanha", "alcance", "impressoes",
	"cpm", "cliques", "cpc", "views_pagina", "custo_view_pagina",
	"adicoes_carrinho", "custo_adicao_carrinho", "valor_conversao_carrinho",
	"valor_gasto",
}

var orderColumns = []string{
	"pedido_id", "pedido_data", "pedido_hora", "pedido_status",
	"envio_estado", "produto_nome", "produto_valor_unitario",
	"produto_quantidade", "produto_valor_total",
}

// ParseDecimal parses a number that may use ',' as the decimal separator.
func ParseDecimal(s string) (decimal.Decimal, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidDecimal, s)
	}
	return d, nil
}

func ParseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidInteger, s)
	}
	return n, nil
}

func ParseCampaignDate(s string) (time.Time, error) { return parseDate(CampaignDateLayout, s) }

// ParseOrderDate parses day-first dates.
func ParseOrderDate(s string) (time.Time, error) { return parseDate(OrderDateLayout, s) }

func parseDate(layout, s string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q (want %s)", ErrInvalidDate, s, layout)
	}
	return t, nil
}

// rowParser reads typed cells out of one raw record, remembering the first error.
type rowParser struct {
	rec     []string
	columns []string
	err     error
}

func (p *rowParser) fail(i int, err error) {
	if p.err == nil {
		p.err = &fieldError{column: p.columns[i], err: err}
	}
}

func (p *rowParser) text(i int) string { return strings.TrimSpace(p.rec[i]) }

func (p *rowParser) date(i int, parse func(string) (time.Time, error)) time.Time {
	t, err := parse(p.rec[i])
	if err != nil {
		p.fail(i, err)
	}
	return t
}

func (p *rowParser) integer(i int) int64 {
	n, err := ParseInt(p.rec[i])
	if err != nil {
		p.fail(i, err)
	}
	return n
}

func (p *rowParser) dec(i int) decimal.Decimal {
	d, err := ParseDecimal(p.rec[i])
	if err != nil {
		p.fail(i, err)
	}
	return d
}

// metricInt and metricDec treat a blank cell as zero.
func (p *rowParser) metricInt(i int) int64 {
	if p.text(i) == "" {
		return 0
	}
	return p.integer(i)
}

func (p *rowParser) metricDec(i int) decimal.Decimal {
	if p.text(i) == "" {
		return decimal.Zero
	}
	return p.dec(i)
}

func (p *rowParser) nonNegative(i int, d decimal.Decimal) {
	if d.IsNegative() {
		p.fail(i, fmt.Errorf("%w %s", ErrNegativeValue, d))
	}
}

// NormalizeCampaign converts a raw campaign record into a classified CampaignRecord.
func NormalizeCampaign(rec []string) (models.CampaignRecord, error) {
	if len(rec) != len(campaignColumns) {
		return models.CampaignRecord{}, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(rec), len(campaignColumns))
	}
	p := &rowParser{rec: rec, columns: campaignColumns}
	c := models.CampaignRecord{
		StartDate:           p.date(0, ParseCampaignDate),
		EndDate:             p.date(1, ParseCampaignDate),
		Name:                p.text(2),
		Reach:               p.metricInt(3),
		Impressions:         p.metricInt(4),
		CPM:                 p.metricDec(5),
		Clicks:              p.metricInt(6),
		CPC:                 p.metricDec(7),
		PageViews:           p.metricInt(8),
		CostPerPageView:     p.metricDec(9),
		CartAdditions:       p.metricInt(10),
		CostPerCartAddition: p.metricDec(11),
		ConversionValue:     p.metricDec(12),
		AmountSpent:         p.metricDec(13),
	}
	if p.err != nil {
		return models.CampaignRecord{}, p.err
	}
	c.BusinessLine = classify.CampaignBusinessLine(c.Name)
	c.ConversionRate = metrics.Rate(c.CartAdditions, c.Clicks)
	c.ROI = metrics.ROI(c.ConversionValue, c.AmountSpent)
	return c, nil
}

// NormalizeOrder converts a raw order record into a classified OrderLine.
func NormalizeOrder(rec []string) (models.OrderLine, error) {
	if len(rec) != len(orderColumns) {
		return models.OrderLine{}, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(rec), len(orderColumns))
	}
	p := &rowParser{rec: rec, columns: orderColumns}
	o := models.OrderLine{
		OrderID:     p.integer(0),
		OrderDate:   p.date(1, ParseOrderDate),
		OrderTime:   p.text(2),
		Status:      p.text(3),
		State:       p.text(4),
		ProductName: p.text(5),
		UnitPrice:   p.dec(6),
		Quantity:    p.integer(7),
		LineTotal:   p.dec(8),
	}
	p.nonNegative(6, o.UnitPrice)
	if o.Quantity < 0 {
		p.fail(7, fmt.Errorf("%w %d", ErrNegativeValue, o.Quantity))
	}
	p.nonNegative(8, o.LineTotal)
	if p.err != nil {
		return models.OrderLine{}, p.err
	}
	o.Category = classify.Category(o.ProductName)
	o.BusinessLine = classify.BusinessLineFor(o.Category)
	return o, nil
}
