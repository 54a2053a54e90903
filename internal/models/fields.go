package models

import "strconv"

const dateLayout = "2006-01-02"

// Field returns the textual value of a canonical order column.
func (o OrderLine) Field(name string) (string, bool) {
	switch name {
	case "pedido_id":
		return strconv.FormatInt(o.OrderID, 10), true
	case "pedido_data":
		return o.OrderDate.Format(dateLayout), true
	case "pedido_hora":
		return o.OrderTime, true
	case "pedido_status":
		return o.Status, true
	case "envio_estado":
		return o.State, true
	case "produto_nome":
		return o.ProductName, true
	case "produto_valor_unitario":
		return o.UnitPrice.String(), true
	case "produto_quantidade":
		return strconv.FormatInt(o.Quantity, 10), true
	case "produto_valor_total":
		return o.LineTotal.String(), true
	case "categoria_produto":
		return string(o.Category), true
	case "tipo_venda":
		return string(o.BusinessLine), true
	}
	return "", false
}

// Field returns the textual value of a canonical campaign column.
func (c CampaignRecord) Field(name string) (string, bool) {
	switch name {
	case "data_inicio":
		return c.StartDate.Format(dateLayout), true
	case "data_fim":
		return c.EndDate.Format(dateLayout), true
	case "nome_campanha":
		return c.Name, true
	case "alcance":
		return strconv.FormatInt(c.Reach, 10), true
	case "impressoes":
		return strconv.FormatInt(c.Impressions, 10), true
	case "cpm":
		return c.CPM.String(), true
	case "cliques":
		return strconv.FormatInt(c.Clicks, 10), true
	case "cpc":
		return c.CPC.String(), true
	case "views_pagina":
		return strconv.FormatInt(c.PageViews, 10), true
	case "custo_view_pagina":
		return c.CostPerPageView.String(), true
	case "adicoes_carrinho":
		return strconv.FormatInt(c.CartAdditions, 10), true
	case "custo_adicao_carrinho":
		return c.CostPerCartAddition.String(), true
	case "valor_conversao_carrinho":
		return c.ConversionValue.String(), true
	case "valor_gasto":
		return c.AmountSpent.String(), true
	case "tipo_campanha":
		return string(c.BusinessLine), true
	}
	return "", false
}
