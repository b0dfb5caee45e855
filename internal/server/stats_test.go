package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/warung/internal/config"
	statsdomain "github.com/smallbiznis/warung/internal/stats/domain"
)

type stubStatsService struct {
	summaryFn func(ctx context.Context, req statsdomain.SummaryRequest) (*statsdomain.Summary, error)
	latestFn  func(ctx context.Context) (*statsdomain.Latest, error)
}

func (s *stubStatsService) Summary(ctx context.Context, req statsdomain.SummaryRequest) (*statsdomain.Summary, error) {
	return s.summaryFn(ctx, req)
}

func (s *stubStatsService) Latest(ctx context.Context) (*statsdomain.Latest, error) {
	return s.latestFn(ctx)
}

func newStatsServer(t *testing.T, stats statsdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:      engine,
		Cfg:      config.Config{Environment: "test"},
		StatsSvc: stats,
	})
	return engine
}

func getStats(engine *gin.Engine, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats"+query, nil)
	engine.ServeHTTP(rec, req)
	return rec
}

func TestStatsPeriodWindows(t *testing.T) {
	var got statsdomain.SummaryRequest
	engine := newStatsServer(t, &stubStatsService{
		summaryFn: func(ctx context.Context, req statsdomain.SummaryRequest) (*statsdomain.Summary, error) {
			got = req
			return &statsdomain.Summary{}, nil
		},
	})

	assert.Equal(t, http.StatusOK, getStats(engine, "").Code)
	assert.Nil(t, got.Start)
	assert.Nil(t, got.End)

	assert.Equal(t, http.StatusOK, getStats(engine, "?period=today").Code)
	require.NotNil(t, got.Start)
	assert.Nil(t, got.End)
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	assert.True(t, got.Start.Equal(midnight))

	assert.Equal(t, http.StatusOK, getStats(engine, "?period=yesterday").Code)
	require.NotNil(t, got.Start)
	require.NotNil(t, got.End)
	assert.True(t, got.Start.Equal(midnight.AddDate(0, 0, -1)))
	assert.True(t, got.End.Equal(midnight))

	assert.Equal(t, http.StatusOK, getStats(engine, "?period=week").Code)
	require.NotNil(t, got.Start)
	assert.True(t, got.Start.Equal(midnight.AddDate(0, 0, -7)))

	// A date-only end names the whole day, so the window runs to the next
	// midnight.
	assert.Equal(t, http.StatusOK, getStats(engine, "?period=custom&start=2026-08-01&end=2026-08-15").Code)
	require.NotNil(t, got.Start)
	require.NotNil(t, got.End)
	assert.Equal(t, "2026-08-01", got.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-08-16", got.End.Format("2006-01-02"))

	assert.Equal(t, http.StatusOK, getStats(engine, "?period=custom&end=2026-08-15T10:30:00Z").Code)
	require.NotNil(t, got.End)
	assert.True(t, got.End.Equal(time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)))
}

func TestStatsUnknownPeriod(t *testing.T) {
	engine := newStatsServer(t, &stubStatsService{
		summaryFn: func(ctx context.Context, req statsdomain.SummaryRequest) (*statsdomain.Summary, error) {
			t.Fatal("summary should not be called")
			return nil, nil
		},
	})

	rec := getStats(engine, "?period=fortnight")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Type)
}

func TestStatsLatest(t *testing.T) {
	at := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	engine := newStatsServer(t, &stubStatsService{
		latestFn: func(ctx context.Context) (*statsdomain.Latest, error) {
			return &statsdomain.Latest{LatestOrderAt: &at}, nil
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/latest", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2026-08-30T18:00:00Z")
}
