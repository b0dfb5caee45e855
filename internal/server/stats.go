package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	statsdomain "github.com/smallbiznis/warung/internal/stats/domain"
)

func (s *Server) GetStats(c *gin.Context) {
	start, end, ok := resolvePeriod(c)
	if !ok {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	summary, err := s.statsSvc.Summary(c.Request.Context(), statsdomain.SummaryRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) GetStatsLatest(c *gin.Context) {
	latest, err := s.statsSvc.Latest(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, latest)
}

// resolvePeriod turns the period shorthand into a [start, end) window.
// "week" and "month" are rolling 7 and 30 day windows.
func resolvePeriod(c *gin.Context) (start, end *time.Time, ok bool) {
	period := strings.ToLower(strings.TrimSpace(c.DefaultQuery("period", "all")))
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case "all", "":
		return nil, nil, true
	case "today":
		return &midnight, nil, true
	case "yesterday":
		from := midnight.AddDate(0, 0, -1)
		return &from, &midnight, true
	case "week":
		from := midnight.AddDate(0, 0, -7)
		return &from, nil, true
	case "month":
		from := midnight.AddDate(0, 0, -30)
		return &from, nil, true
	case "custom":
		return parseOptionalTime(c, "start"), parseOptionalEndTime(c, "end"), true
	default:
		return nil, nil, false
	}
}
