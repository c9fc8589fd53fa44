package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wealth-signals/internal/entity"
	"wealth-signals/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSignalService struct {
	available bool
	limits    []int
}

func (s *stubSignalService) GetSignals(_ context.Context, limit int) []entity.Signal {
	s.limits = append(s.limits, limit)
	universe := []entity.Signal{
		{Ticker: "ASIANPAINT", Action: entity.ActionBuy, Reason: "r", Source: entity.SourceTechnical, Confidence: 0.7},
		{Ticker: "AXISBANK", Action: entity.ActionWatch, Reason: "r", Source: entity.SourceHeuristic, Confidence: 0.3},
	}
	if limit < len(universe) {
		universe = universe[:limit]
	}
	return universe
}

func (s *stubSignalService) Provider() string     { return "groq" }
func (s *stubSignalService) ModelAvailable() bool { return s.available }

func newTestServer(svc *stubSignalService) *echo.Echo {
	e := echo.New()
	NewSignalHandler(svc, 8, logger.NewNop()).RegisterRoutes(e)
	return e
}

func TestHealth(t *testing.T) {
	e := newTestServer(&stubSignalService{available: true})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","groq_available":true}`, rec.Body.String())
}

func TestGetSignals(t *testing.T) {
	svc := &stubSignalService{}
	e := newTestServer(svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signals?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"ticker":"ASIANPAINT","action":"BUY","reason":"r","source":"Technical","confidence":0.7}]`, rec.Body.String())
	assert.Equal(t, []int{1}, svc.limits)
}

func TestGetSignalsDefaultLimit(t *testing.T) {
	svc := &stubSignalService{}
	e := newTestServer(svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signals", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []entity.Signal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, []int{8}, svc.limits)
}

func TestGetSignalsZeroLimitReturnsEmptyArray(t *testing.T) {
	e := newTestServer(&stubSignalService{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signals?limit=0", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetSignalsInvalidLimit(t *testing.T) {
	for _, raw := range []string{"-1", "abc", "2.5"} {
		t.Run(raw, func(t *testing.T) {
			svc := &stubSignalService{}
			e := newTestServer(svc)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signals?limit="+raw, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, svc.limits)
		})
	}
}
