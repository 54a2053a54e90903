package ingest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/terrafedash/internal/config"
	"github.com/AngelCh415/terrafedash/internal/metrics"
	"github.com/AngelCh415/terrafedash/internal/utils"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

const campaignsCSV = "data_inicio;data_fim;nome_campanha;alcance;impressoes;cpm;cliques;cpc;views_pagina;custo_view_pagina;adicoes_carrinho;custo_adicao_carrinho;valor_conversao_carrinho;valor_gasto\n" +
	"2025-04-01;2025-04-30;[INSTITUTO] Curso Barista;5000;10000;10,00;100;1,00;80;1,25;10;10,00;300,00;100,00\n" +
	"2025-04-01;2025-04-30;Cafés especiais;9000;30000;10,00;300;1,00;250;1,20;30;10,00;;300,00\n"

const ordersCSV = "pedido_id;pedido_data;pedido_hora;pedido_status;envio_estado;produto_nome;produto_valor_unitario;produto_quantidade;produto_valor_total\n" +
	"1;05/04/2025;10:00;Entregue;SP;Café Catuaí;50,00;2;100,00\n" +
	"1;05/04/2025;10:00;Entregue;SP;Xícara esmaltada;50,00;1;50,00\n" +
	"2;06/04/2025;11:30;Enviado;RJ;Curso de Barista;200,00;1;200,00\n" +
	"2;06/04/2025;11:30;Enviado;RJ;Café Bourbon;25,00;2;50,00\n"

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newTestETL(campaigns, orders string) *ETL {
	e := NewETL(NewHTTPClient(2*time.Second), quiet, config.Sources{Campaigns: campaigns, Orders: orders})
	e.backoff = utils.NewBackoff(time.Millisecond, 2)
	e.now = func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) }
	return e
}

func TestLoadEndToEnd(t *testing.T) {
	dir := t.TempDir()
	e := newTestETL(write(t, dir, "ads.csv", campaignsCSV), write(t, dir, "pedidos.csv", ordersCSV))

	ds, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), ds.LoadedAt)
	require.Len(t, ds.Campaigns, 2)
	require.Len(t, ds.Orders, 4)

	s := metrics.SummarizeOrders(ds.Orders)
	assert.True(t, decimal.NewFromInt(400).Equal(s.TotalRevenue))
	assert.Equal(t, 2, s.TotalOrders)
	assert.True(t, decimal.NewFromInt(200).Equal(s.AverageOrderValue.Decimal))
	assert.Equal(t, int64(6), s.UnitsSold)

	// blank conversion value counts as zero
	assert.True(t, ds.Campaigns[1].ConversionValue.IsZero())
}

func TestLoadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	e := newTestETL(write(t, dir, "ads.csv", campaignsCSV), write(t, dir, "pedidos.csv", ordersCSV))
	a, err := e.Load(context.Background())
	require.NoError(t, err)
	b, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a.Orders, b.Orders)
	assert.Equal(t, a.Campaigns, b.Campaigns)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	e := newTestETL(write(t, dir, "ads.csv", "\ufeff"+campaignsCSV), write(t, dir, "pedidos.csv", "\ufeff"+ordersCSV))
	ds, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Orders, 4)
}

func TestLoadReportsRowAndColumn(t *testing.T) {
	dir := t.TempDir()
	bad := strings.Replace(ordersCSV, "Xícara esmaltada;50,00;1;", "Xícara esmaltada;50,00;1.5;", 1)
	e := newTestETL(write(t, dir, "ads.csv", campaignsCSV), write(t, dir, "pedidos.csv", bad))

	ds, err := e.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, ErrInvalidInteger)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, SourceOrders, le.Source)
	assert.Equal(t, 3, le.Row)
	assert.Equal(t, "produto_quantidade", le.Column)
	assert.Contains(t, err.Error(), "row 3 column produto_quantidade")
}

func TestLoadColumnCount(t *testing.T) {
	dir := t.TempDir()
	short := strings.Replace(campaignsCSV, ";valor_gasto\n", "\n", 1)
	e := newTestETL(write(t, dir, "ads.csv", short), write(t, dir, "pedidos.csv", ordersCSV))
	_, err := e.Load(context.Background())
	assert.ErrorIs(t, err, ErrColumnCount)

	extra := ordersCSV + "3;07/04/2025;09:00;Entregue;MG;Kit;10,00;1;10,00;sobra\n"
	e = newTestETL(write(t, dir, "ads2.csv", campaignsCSV), write(t, dir, "pedidos2.csv", extra))
	_, err = e.Load(context.Background())
	require.ErrorIs(t, err, ErrColumnCount)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 6, le.Row)
}

func TestLoadEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	e := newTestETL(write(t, dir, "ads.csv", ""), write(t, dir, "pedidos.csv", ordersCSV))
	_, err := e.Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptySource)

	e = newTestETL(filepath.Join(dir, "nope.csv"), write(t, dir, "p.csv", ordersCSV))
	_, err = e.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRemoteRetries5xx(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ads.csv" && hits.Add(1) == 1 {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case "/ads.csv":
			io.WriteString(w, campaignsCSV)
		case "/pedidos.csv":
			io.WriteString(w, ordersCSV)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	e := newTestETL(srv.URL+"/ads.csv", srv.URL+"/pedidos.csv")
	ds, err := e.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Campaigns, 2)
	assert.Equal(t, int64(2), hits.Load())
}

func TestLoadRemote404IsPermanent(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	e := newTestETL(srv.URL+"/ads.csv", srv.URL+"/pedidos.csv")
	_, err := e.Load(context.Background())
	require.ErrorContains(t, err, "404")
	assert.Equal(t, int64(1), hits.Load())
}

func TestGetWithRetryTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := GetWithRetry(context.Background(), NewHTTPClient(50*time.Millisecond), utils.NewBackoff(time.Millisecond, 0), srv.URL, DefaultMaxSourceBytes)
	assert.Error(t, err)
}

func TestLoadRefusesOversizedRemoteSource(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ads.csv":
			io.WriteString(w, campaignsCSV)
		default:
			hits.Add(1)
			io.WriteString(w, ordersCSV)
		}
	}))
	defer srv.Close()

	// the cap lands inside the last row's total
	e := newTestETL(srv.URL+"/ads.csv", srv.URL+"/pedidos.csv")
	e.maxBytes = int64(len(ordersCSV) - 3)

	ds, err := e.Load(context.Background())
	require.ErrorIs(t, err, ErrSourceTooLarge)
	assert.Nil(t, ds)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, SourceOrders, le.Source)
	assert.Equal(t, int64(1), hits.Load())

	e.maxBytes = int64(len(ordersCSV))
	ds, err = e.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Orders, 4)
}

func TestLoadRefusesOversizedLocalSource(t *testing.T) {
	dir := t.TempDir()
	e := newTestETL(write(t, dir, "ads.csv", campaignsCSV), write(t, dir, "pedidos.csv", ordersCSV))
	e.maxBytes = 10
	_, err := e.Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceTooLarge)
}

func TestLoadKeepsStrayQuotes(t *testing.T) {
	dir := t.TempDir()
	withQuote := ordersCSV + "3;07/04/2025;09:00;Entregue;MG;Caneca 12\" azul;10,00;1;10,00\n"
	e := newTestETL(write(t, dir, "ads.csv", campaignsCSV), write(t, dir, "pedidos.csv", withQuote))

	ds, err := e.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Orders, 5)
	assert.Equal(t, `Caneca 12" azul`, ds.Orders[4].ProductName)
	assert.True(t, decimal.NewFromInt(10).Equal(ds.Orders[4].LineTotal))
}
