package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryCoursesWorkshops Category = "Cursos e Workshops"
	CategoryCoffee           Category = "Café"
	CategoryKits             Category = "Kits"
	CategoryAccessories      Category = "Acessórios"
	CategoryArt              Category = "Arte"
	CategoryFood             Category = "Alimentos"
	CategoryOther            Category = "Outros"
)

// Categories lists every category in rule order, Other last.
var Categories = []Category{
	CategoryCoursesWorkshops,
	CategoryCoffee,
	CategoryKits,
	CategoryAccessories,
	CategoryArt,
	CategoryFood,
	CategoryOther,
}

type BusinessLine string

const (
	BusinessLineInstitute BusinessLine = "Instituto"
	BusinessLineEcommerce BusinessLine = "Ecommerce"
)

// ParseBusinessLine accepts the canonical value or its lower-case form.
func ParseBusinessLine(s string) (BusinessLine, bool) {
	switch s {
	case string(BusinessLineInstitute), "instituto", "institute":
		return BusinessLineInstitute, true
	case string(BusinessLineEcommerce), "ecommerce":
		return BusinessLineEcommerce, true
	}
	return "", false
}

// OrderLine is one product line of an order. An order id repeats across lines.
type OrderLine struct {
	OrderID      int64           `json:"pedido_id"`
	OrderDate    time.Time       `json:"pedido_data"`
	OrderTime    string          `json:"pedido_hora"`
	Status       string          `json:"pedido_status"`
	State        string          `json:"envio_estado"`
	ProductName  string          `json:"produto_nome"`
	UnitPrice    decimal.Decimal `json:"produto_valor_unitario"`
	Quantity     int64           `json:"produto_quantidade"`
	LineTotal    decimal.Decimal `json:"produto_valor_total"`
	Category     Category        `json:"categoria_produto"`
	BusinessLine BusinessLine    `json:"tipo_venda"`
}

type CampaignRecord struct {
	StartDate           time.Time       `json:"data_inicio"`
	EndDate             time.Time       `json:"data_fim"`
	Name                string          `json:"nome_campanha"`
	Reach               int64           `json:"alcance"`
	Impressions         int64           `json:"impressoes"`
	CPM                 decimal.Decimal `json:"cpm"`
	Clicks              int64           `json:"cliques"`
	CPC                 decimal.Decimal `json:"cpc"`
	PageViews           int64           `json:"views_pagina"`
	CostPerPageView     decimal.Decimal `json:"custo_view_pagina"`
	CartAdditions       int64           `json:"adicoes_carrinho"`
	CostPerCartAddition decimal.Decimal `json:"custo_adicao_carrinho"`
	ConversionValue     decimal.Decimal `json:"valor_conversao_carrinho"`
	AmountSpent         decimal.Decimal `json:"valor_gasto"`
	BusinessLine        BusinessLine    `json:"tipo_campanha"`
	ConversionRate      Percent         `json:"taxa_conversao"`
	ROI                 Percent         `json:"roi"`
}

// Dataset is the immutable result of one load.
type Dataset struct {
	ID        string           `json:"id"`
	LoadedAt  time.Time        `json:"loaded_at"`
	Campaigns []CampaignRecord `json:"-"`
	Orders    []OrderLine      `json:"-"`
}

type AmountRow struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

type CountRow struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type DayAmountRow struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type OrdersSummary struct {
	TotalOrders       int                 `json:"total_pedidos"`
	TotalRevenue      decimal.Decimal     `json:"total_vendas"`
	AverageOrderValue decimal.NullDecimal `json:"ticket_medio"`
	UnitsSold         int64               `json:"produtos_vendidos"`
	ByStatus          []CountRow          `json:"status_counts"`
	ByState           []AmountRow         `json:"vendas_por_estado"`
	ByCategory        []AmountRow         `json:"vendas_por_categoria"`
	ByDay             []DayAmountRow      `json:"vendas_por_dia"`
	ByBusinessLine    []AmountRow         `json:"vendas_por_tipo"`
}

type AdsSummary struct {
	TotalSpend                decimal.Decimal     `json:"total_gasto"`
	TotalImpressions          int64               `json:"total_impressoes"`
	TotalClicks               int64               `json:"total_cliques"`
	TotalConversions          int64               `json:"total_conversoes"`
	CTR                       float64             `json:"ctr"`
	ConversionRate            float64             `json:"taxa_conversao"`
	MeanCPM                   decimal.NullDecimal `json:"cpm_medio"`
	MeanCPC                   decimal.NullDecimal `json:"cpc_medio"`
	SpendByBusinessLine       []AmountRow         `json:"gasto_por_tipo"`
	ConversionsByBusinessLine []CountRow          `json:"conv_por_tipo"`
}

type CampaignSegment struct {
	BusinessLine   BusinessLine    `json:"tipo_campanha"`
	Spend          decimal.Decimal `json:"valor_gasto"`
	Clicks         int64           `json:"cliques"`
	Impressions    int64           `json:"impressoes"`
	CartAdditions  int64           `json:"adicoes_carrinho"`
	CTR            Percent         `json:"ctr"`
	ConversionRate Percent         `json:"taxa_conversao"`
}

type ProductRow struct {
	Name     string          `json:"produto_nome"`
	Quantity int64           `json:"produto_quantidade"`
	Revenue  decimal.Decimal `json:"produto_valor_total"`
}
