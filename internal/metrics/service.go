package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AngelCh415/terrafedash/internal/filter"
	"github.com/AngelCh415/terrafedash/internal/models"
)

var ErrBadQuery = errors.New("bad query")

// DatasetSource hands out the dataset currently being served.
type DatasetSource interface {
	Current(ctx context.Context) (*models.Dataset, error)
}

type Service struct{ src DatasetSource }

func NewService(src DatasetSource) *Service { return &Service{src: src} }

// OrderQuery is the set of exact-match selectors plus a free-text product search.
type OrderQuery struct {
	BusinessLine *models.BusinessLine
	Status       string
	State        string
	Category     string
	Search       string
}

func ParseOrderQuery(v url.Values) (OrderQuery, error) {
	line, err := parseLine(v.Get("business_line"))
	if err != nil {
		return OrderQuery{}, err
	}
	return OrderQuery{
		BusinessLine: line,
		Status:       v.Get("status"),
		State:        v.Get("state"),
		Category:     v.Get("category"),
		Search:       v.Get("q"),
	}, nil
}

// Apply narrows rows by every non-empty selector.
func (q OrderQuery) Apply(rows []models.OrderLine) ([]models.OrderLine, error) {
	var err error
	exact := []struct{ field, value string }{
		{"pedido_status", q.Status},
		{"envio_estado", q.State},
		{"categoria_produto", q.Category},
	}
	if q.BusinessLine != nil {
		exact = append(exact, struct{ field, value string }{"tipo_venda", string(*q.BusinessLine)})
	}
	for _, f := range exact {
		if f.value == "" {
			continue
		}
		if rows, err = filter.Equals(rows, f.field, f.value); err != nil {
			return nil, err
		}
	}
	if q.Search != "" {
		if rows, err = filter.Contains(rows, "produto_nome", q.Search); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (s *Service) filteredOrders(ctx context.Context, v url.Values) ([]models.OrderLine, error) {
	q, err := ParseOrderQuery(v)
	if err != nil {
		return nil, err
	}
	ds, err := s.src.Current(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(ds.Orders)
}

// QueryOrders returns matching order lines, newest first, paginated by limit/offset.
func (s *Service) QueryOrders(ctx context.Context, v url.Values) ([]models.OrderLine, error) {
	rows, err := s.filteredOrders(ctx, v)
	if err != nil {
		return nil, err
	}
	rows = SortOrdersByDateDesc(rows)
	limit := atoiDef(v.Get("limit"), 0)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return paginate(rows, limit, offset), nil
}

// OrdersSummary summarises the filtered lines. sort=desc orders the
// state, category and business line breakdowns by value, largest first;
// the default is by key.
func (s *Service) OrdersSummary(ctx context.Context, v url.Values) (models.OrdersSummary, error) {
	desc, err := parseSort(v.Get("sort"))
	if err != nil {
		return models.OrdersSummary{}, err
	}
	rows, err := s.filteredOrders(ctx, v)
	if err != nil {
		return models.OrdersSummary{}, err
	}
	sum := SummarizeOrders(rows)
	if desc {
		sum.ByState = SortAmountsDesc(sum.ByState)
		sum.ByCategory = SortAmountsDesc(sum.ByCategory)
		sum.ByBusinessLine = SortAmountsDesc(sum.ByBusinessLine)
	}
	return sum, nil
}

func (s *Service) AdsSummary(ctx context.Context, v url.Values) (models.AdsSummary, error) {
	line, err := parseLine(v.Get("business_line"))
	if err != nil {
		return models.AdsSummary{}, err
	}
	ds, err := s.src.Current(ctx)
	if err != nil {
		return models.AdsSummary{}, err
	}
	rows := ds.Campaigns
	if line != nil {
		if rows, err = adsOf(rows, *line); err != nil {
			return models.AdsSummary{}, err
		}
	}
	return SummarizeAds(rows), nil
}

func (s *Service) Overview(ctx context.Context, v url.Values) (Report, error) {
	line, err := parseLine(v.Get("business_line"))
	if err != nil {
		return Report{}, err
	}
	ds, err := s.src.Current(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(ds.Orders, ds.Campaigns, line, atoiDef(v.Get("top"), 10))
}

func (s *Service) TopProducts(ctx context.Context, v url.Values) ([]models.ProductRow, error) {
	rows, err := s.filteredOrders(ctx, v)
	if err != nil {
		return nil, err
	}
	return TopProducts(rows, atoiDef(v.Get("limit"), 10)), nil
}

// Options lists the selectable values of the order table filters.
type Options struct {
	Statuses   []string `json:"pedido_status"`
	States     []string `json:"envio_estado"`
	Categories []string `json:"categoria_produto"`
}

func (s *Service) Options(ctx context.Context) (Options, error) {
	ds, err := s.src.Current(ctx)
	if err != nil {
		return Options{}, err
	}
	var o Options
	if o.Statuses, err = filter.Distinct(ds.Orders, "pedido_status"); err != nil {
		return Options{}, err
	}
	if o.States, err = filter.Distinct(ds.Orders, "envio_estado"); err != nil {
		return Options{}, err
	}
	if o.Categories, err = filter.Distinct(ds.Orders, "categoria_produto"); err != nil {
		return Options{}, err
	}
	return o, nil
}

func parseLine(s string) (*models.BusinessLine, error) {
	if s == "" {
		return nil, nil
	}
	l, ok := models.ParseBusinessLine(s)
	if !ok {
		return nil, fmt.Errorf("%w: business_line %q", ErrBadQuery, s)
	}
	return &l, nil
}

func parseSort(s string) (bool, error) {
	switch s {
	case "", "key":
		return false, nil
	case "desc":
		return true, nil
	}
	return false, fmt.Errorf("%w: sort %q", ErrBadQuery, s)
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}
