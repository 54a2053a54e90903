package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/terrafedash/internal/export"
	"github.com/AngelCh415/terrafedash/internal/filter"
	"github.com/AngelCh415/terrafedash/internal/metrics"
	"github.com/AngelCh415/terrafedash/internal/models"
	"github.com/AngelCh415/terrafedash/internal/utils"
)

// Datasets is the cache the router serves from.
type Datasets interface {
	Current(ctx context.Context) (*models.Dataset, error)
	Reload(ctx context.Context) (*models.Dataset, error)
	Invalidate()
	Peek() (*models.Dataset, error)
}

type Exporter interface {
	Send(ctx context.Context, v any) (int, error)
}

type datasetInfo struct {
	ID        string    `json:"id"`
	LoadedAt  time.Time `json:"loaded_at"`
	Campaigns int       `json:"campanhas"`
	Orders    int       `json:"pedidos"`
}

func info(ds *models.Dataset) datasetInfo {
	return datasetInfo{ID: ds.ID, LoadedAt: ds.LoadedAt, Campaigns: len(ds.Campaigns), Orders: len(ds.Orders)}
}

func NewRouter(log *slog.Logger, ds Datasets, mSvc *metrics.Service, sink Exporter) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Instrument)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := ds.Peek(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())

	mux.Get("/dataset", func(w http.ResponseWriter, r *http.Request) {
		cur, err := ds.Current(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, info(cur))
	})

	mux.Post("/dataset/reload", func(w http.ResponseWriter, r *http.Request) {
		cur, err := ds.Reload(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, info(cur))
	})

	// the next read loads again; until then /readyz reports 503
	mux.Post("/dataset/invalidate", func(w http.ResponseWriter, r *http.Request) {
		ds.Invalidate()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.Get("/summary/orders", query(mSvc.OrdersSummary))
	mux.Get("/summary/ads", query(mSvc.AdsSummary))
	mux.Get("/overview", query(mSvc.Overview))
	mux.Get("/orders", query(mSvc.QueryOrders))
	mux.Get("/products/top", query(mSvc.TopProducts))
	mux.Get("/orders/options", func(w http.ResponseWriter, r *http.Request) {
		o, err := mSvc.Options(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, o)
	})

	mux.Post("/export/run", func(w http.ResponseWriter, r *http.Request) {
		rep, err := mSvc.Overview(r.Context(), r.URL.Query())
		if err != nil {
			writeErr(w, err)
			return
		}
		n, err := sink.Send(r.Context(), rep)
		if errors.Is(err, export.ErrSinkNotConfigured) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]any{"exported": n})
	})

	return mux
}

func query[T any](fn func(context.Context, url.Values) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r.Context(), r.URL.Query())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, v)
	}
}

// writeErr maps caller mistakes to 400; anything else means no dataset could
// be served.
func writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, metrics.ErrBadQuery) || errors.Is(err, filter.ErrUnknownField) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusServiceUnavailable)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
