package api

import (
	"net/http"
	"strconv"

	"game_dashboard/internal/middleware"
	"game_dashboard/internal/service"
	"game_dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultTimeseriesDays  = 7
	defaultTimeseriesWeeks = 8
)

type currencyRoutes struct {
	service service.CurrencyServiceI
}

type AdjustCurrencyRequest struct {
	Counts *int `json:"counts" binding:"required"`
}

type GrantCurrencyRequest struct {
	Title  string `json:"title" binding:"required"`
	Amount int    `json:"amount"`
}

func NewCurrencyRoutes(handler *gin.RouterGroup, svc service.CurrencyServiceI, authz *middleware.Authorization) {
	r := &currencyRoutes{service: svc}

	g := handler.Group("/games/:id/currencies")
	{
		g.GET("", r.listLatest)
		g.GET("/timeseries", r.timeseries)
		g.POST("/grant", authz.AdminOnly(), r.grant)
	}

	h := handler.Group("/currencies")
	{
		h.POST("/:id/adjust", authz.AdminOnly(), r.adjust)
	}
}

func (r *currencyRoutes) listLatest(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	currencies, err := r.service.ListLatest(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "list currencies")
		return
	}

	out := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		out[i] = newCurrencyResponse(&currencies[i])
	}
	c.JSON(http.StatusOK, out)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (r *currencyRoutes) timeseries(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	q := service.TimeseriesQuery{
		Title:  c.Query("title"),
		Weekly: queryBool(c, "weekly"),
	}
	var err error
	if q.Days, err = queryInt(c, "days", defaultTimeseriesDays); err != nil {
		badRequest(c, log, err)
		return
	}
	if q.Weeks, err = queryInt(c, "weeks", defaultTimeseriesWeeks); err != nil {
		badRequest(c, log, err)
		return
	}
	anchor, start := c.Query("anchor"), c.Query("start")
	if q.Anchor, err = parseDate(&anchor); err != nil {
		badRequest(c, log, err)
		return
	}
	if q.Start, err = parseDate(&start); err != nil {
		badRequest(c, log, err)
		return
	}

	ts, err := r.service.Timeseries(c.Request.Context(), id, q)
	if err != nil {
		respondError(c, log, err, "build currency timeseries")
		return
	}
	c.JSON(http.StatusOK, newTimeseriesResponse(ts))
}

func (r *currencyRoutes) grant(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req GrantCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}

	cur, err := r.service.Grant(c.Request.Context(), id, req.Title, req.Amount)
	if err != nil {
		respondError(c, log, err, "grant currency")
		return
	}

	log.Info("currency granted",
		zap.Int64("game_id", id),
		zap.String("title", req.Title),
		zap.Int("amount", req.Amount),
		zap.Int("counts", cur.Counts))
	c.JSON(http.StatusCreated, newCurrencyResponse(cur))
}

func (r *currencyRoutes) adjust(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req AdjustCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}

	cur, err := r.service.Adjust(c.Request.Context(), id, *req.Counts)
	if err != nil {
		respondError(c, log, err, "adjust currency")
		return
	}
	c.JSON(http.StatusCreated, newCurrencyResponse(cur))
}
