package metrics

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/terrafedash/internal/models"
)

type staticSource struct {
	ds  *models.Dataset
	err error
}

func (s staticSource) Current(context.Context) (*models.Dataset, error) { return s.ds, s.err }

func newTestService() *Service {
	return NewService(staticSource{ds: &models.Dataset{ID: "t", Orders: sample(), Campaigns: campaigns()}})
}

func TestServiceOrdersSummaryFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	s, err := svc.OrdersSummary(ctx, url.Values{"state": {"SP"}})
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalOrders)
	assert.True(t, dec("150").Equal(s.TotalRevenue))

	s, err = svc.OrdersSummary(ctx, url.Values{"business_line": {"instituto"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.UnitsSold)

	s, err = svc.OrdersSummary(ctx, url.Values{"q": {"CAFÉ"}})
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalOrders)
	assert.True(t, dec("150").Equal(s.TotalRevenue))

	s, err = svc.OrdersSummary(ctx, url.Values{"state": {"AM"}})
	require.NoError(t, err)
	assert.Equal(t, 0, s.TotalOrders)
	assert.False(t, s.AverageOrderValue.Valid)
}

func TestServiceBadBusinessLine(t *testing.T) {
	_, err := newTestService().AdsSummary(context.Background(), url.Values{"business_line": {"atacado"}})
	assert.ErrorIs(t, err, ErrBadQuery)
}

func TestServicePropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(staticSource{err: boom})
	_, err := svc.Overview(context.Background(), url.Values{})
	assert.ErrorIs(t, err, boom)
}

func TestServiceQueryOrdersPaginates(t *testing.T) {
	svc := newTestService()
	rows, err := svc.QueryOrders(context.Background(), url.Values{"limit": {"1"}, "offset": {"0"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].OrderID)

	rows, err = svc.QueryOrders(context.Background(), url.Values{"offset": {"99"}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestServiceOptions(t *testing.T) {
	o, err := newTestService().Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Entregue", "Enviado"}, o.Statuses)
	assert.Equal(t, []string{"RJ", "SP"}, o.States)
}

func TestServiceAdsByLine(t *testing.T) {
	s, err := newTestService().AdsSummary(context.Background(), url.Values{"business_line": {"Ecommerce"}})
	require.NoError(t, err)
	assert.Equal(t, int64(150), s.TotalClicks)
}

func TestServiceTopProductsLimit(t *testing.T) {
	rows, err := newTestService().TopProducts(context.Background(), url.Values{"limit": {"1"}, "category": {"Café"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café Catuaí", rows[0].Name)
}

func TestServiceOrdersSummarySortDesc(t *testing.T) {
	svc := newTestService()
	s, err := svc.OrdersSummary(context.Background(), url.Values{"sort": {"desc"}})
	require.NoError(t, err)
	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, string(models.CategoryCoursesWorkshops), s.ByCategory[0].Key)
	assert.Equal(t, string(models.BusinessLineEcommerce), s.ByBusinessLine[0].Key)

	s, err = svc.OrdersSummary(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Equal(t, string(models.CategoryAccessories), s.ByCategory[0].Key)

	_, err = svc.OrdersSummary(context.Background(), url.Values{"sort": {"sideways"}})
	assert.ErrorIs(t, err, ErrBadQuery)
}
