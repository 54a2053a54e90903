package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AngelCh415/terrafedash/internal/config"
	"github.com/AngelCh415/terrafedash/internal/models"
	"github.com/AngelCh415/terrafedash/internal/utils"
)

const (
	SourceCampaigns = "campaigns"
	SourceOrders    = "orders"
)

var tracer = otel.Tracer("github.com/AngelCh415/terrafedash/internal/ingest")

type ETL struct {
	c        HTTPClient
	backoff  utils.Backoff
	log      *slog.Logger
	cfg      config.Sources
	now      func() time.Time
	maxBytes int64
}

func NewETL(c HTTPClient, log *slog.Logger, cfg config.Sources) *ETL {
	return &ETL{c: c, backoff: DefaultBackoff(), log: log, cfg: cfg, now: time.Now, maxBytes: DefaultMaxSourceBytes}
}

// Load reads, normalizes and classifies both sources. Any error fails the
// whole load; no partial dataset is ever returned.
func (e *ETL) Load(ctx context.Context) (*models.Dataset, error) {
	ctx, span := tracer.Start(ctx, "ingest.Load", trace.WithAttributes(
		attribute.String("source.campaigns", e.cfg.Campaigns),
		attribute.String("source.orders", e.cfg.Orders),
	))
	defer span.End()

	start := time.Now()
	ds, err := e.load(ctx)
	utils.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		utils.DatasetLoadsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		e.log.Error("dataset load failed", slog.String("err", err.Error()))
		return nil, err
	}
	utils.DatasetLoadsTotal.WithLabelValues("ok").Inc()
	utils.DatasetRows.WithLabelValues(SourceCampaigns).Set(float64(len(ds.Campaigns)))
	utils.DatasetRows.WithLabelValues(SourceOrders).Set(float64(len(ds.Orders)))
	span.SetAttributes(
		attribute.Int("rows.campaigns", len(ds.Campaigns)),
		attribute.Int("rows.orders", len(ds.Orders)),
	)
	e.log.Info("dataset loaded",
		slog.String("id", ds.ID),
		slog.Int("campaigns", len(ds.Campaigns)),
		slog.Int("orders", len(ds.Orders)),
		slog.Duration("took", time.Since(start)))
	return ds, nil
}

func (e *ETL) load(ctx context.Context) (*models.Dataset, error) {
	campaigns, err := readSource(ctx, e, SourceCampaigns, e.cfg.Campaigns, len(campaignColumns), NormalizeCampaign)
	if err != nil {
		return nil, err
	}
	orders, err := readSource(ctx, e, SourceOrders, e.cfg.Orders, len(orderColumns), NormalizeOrder)
	if err != nil {
		return nil, err
	}
	return &models.Dataset{
		ID:        uuid.NewString(),
		LoadedAt:  e.now(),
		Campaigns: campaigns,
		Orders:    orders,
	}, nil
}

func readSource[T any](ctx context.Context, e *ETL, source, loc string, columns int, normalize func([]string) (T, error)) ([]T, error) {
	wrap := func(row int, column string, err error) error {
		return &LoadError{Source: source, Path: loc, Row: row, Column: column, Err: err}
	}

	r, err := open(ctx, e.c, e.backoff, loc, e.maxBytes)
	if err != nil {
		return nil, wrap(0, "", err)
	}
	t, err := readTable(r, columns)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source, le.Path = source, loc
			return nil, le
		}
		return nil, wrap(0, "", err)
	}

	out := make([]T, 0, len(t.rows))
	for i, rec := range t.rows {
		v, err := normalize(rec)
		if err != nil {
			var fe *fieldError
			if errors.As(err, &fe) {
				return nil, wrap(t.lines[i], fe.column, fe.err)
			}
			return nil, wrap(t.lines[i], "", err)
		}
		out = append(out, v)
	}
	return out, nil
}
