// Package export pushes reports to an external HTTP sink.
package export

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AngelCh415/terrafedash/internal/config"
	"github.com/AngelCh415/terrafedash/internal/ingest"
	"github.com/AngelCh415/terrafedash/internal/utils"
)

const SignatureHeader = "X-Signature"

var ErrSinkNotConfigured = errors.New("sink not configured")

var tracer = otel.Tracer("github.com/AngelCh415/terrafedash/internal/export")

type Sink struct {
	c   ingest.HTTPClient
	cfg config.Sink
	log *slog.Logger
}

func NewSink(c ingest.HTTPClient, cfg config.Sink, log *slog.Logger) *Sink {
	return &Sink{c: c, cfg: cfg, log: log}
}

func (s *Sink) Configured() bool { return s.cfg.URL != "" && s.cfg.Secret != "" }

// Send POSTs v as JSON, signed with the shared secret. It returns the number
// of bytes delivered.
func (s *Sink) Send(ctx context.Context, v any) (int, error) {
	if !s.Configured() {
		return 0, ErrSinkNotConfigured
	}
	ctx, span := tracer.Start(ctx, "export.Send")
	defer span.End()

	n, err := s.send(ctx, v)
	if err != nil {
		utils.ExportsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
		s.log.Error("export failed", slog.String("rid", utils.RID(ctx)), slog.String("err", err.Error()))
		return 0, err
	}
	utils.ExportsTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("export.bytes", n))
	s.log.Info("export sent", slog.String("rid", utils.RID(ctx)), slog.Int("bytes", n))
	return n, nil
}

func (s *Sink) send(ctx context.Context, v any) (int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(s.cfg.Secret, b))
	if rid := utils.RID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}
	resp, err := s.c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("export sink non-2xx: %d body=%s", resp.StatusCode, string(snippet))
	}
	return len(b), nil
}

// Sign is the hex HMAC-SHA256 of body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature in constant time.
func Verify(secret string, body []byte, sig string) bool {
	want, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
