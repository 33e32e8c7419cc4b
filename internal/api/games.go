package api

import (
	"net/http"
	"strconv"

	"game_dashboard/internal/middleware"
	"game_dashboard/internal/model"
	"game_dashboard/internal/service"
	"game_dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type gameRoutes struct {
	service service.GameServiceI
}

type CreateGameRequest struct {
	Title       string  `json:"title" binding:"required"`
	StartDate   *string `json:"start_date"`
	UID         *string `json:"uid"`
	CouponURL   *string `json:"coupon_url"`
	RefreshDay  *int    `json:"refresh_day"`
	RefreshTime *string `json:"refresh_time"`
}

type EndGameRequest struct {
	EndDate *string `json:"end_date"`
}

type UpdateRefreshRequest struct {
	RefreshDay  *int    `json:"refresh_day"`
	RefreshTime *string `json:"refresh_time"`
}

func NewGameRoutes(handler *gin.RouterGroup, svc service.GameServiceI, authz *middleware.Authorization) {
	r := &gameRoutes{service: svc}

	h := handler.Group("/games")
	{
		h.GET("", r.listGames)
		h.GET("/:id", r.getGame)
		h.POST("", authz.AdminOnly(), r.createGame)
		h.POST("/:id/end", authz.AdminOnly(), r.endGame)
		h.PATCH("/:id/refresh", authz.AdminOnly(), r.updateRefresh)
	}
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

func (r *gameRoutes) listGames(c *gin.Context) {
	log := logger.Logger()

	games, err := r.service.ListGames(c.Request.Context(), queryBool(c, "include_stopped"), queryBool(c, "during_play_only"))
	if err != nil {
		respondError(c, log, err, "list games")
		return
	}

	out := make([]GameResponse, len(games))
	for i := range games {
		out[i] = newGameResponse(&games[i])
	}
	c.JSON(http.StatusOK, out)
}

func (r *gameRoutes) getGame(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	game, err := r.service.GetGame(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "get game")
		return
	}
	c.JSON(http.StatusOK, newGameResponse(game))
}

func (r *gameRoutes) createGame(c *gin.Context) {
	log := logger.Logger()

	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, log, err)
		return
	}

	game := &model.Game{
		Title:       req.Title,
		UID:         req.UID,
		CouponURL:   req.CouponURL,
		RefreshDay:  req.RefreshDay,
		RefreshTime: req.RefreshTime,
	}
	if start != nil {
		game.StartDate = *start
	}

	created, err := r.service.CreateGame(c.Request.Context(), game)
	if err != nil {
		respondError(c, log, err, "create game")
		return
	}

	log.Info("game created", zap.Int64("game_id", created.ID), zap.String("title", created.Title))
	c.JSON(http.StatusCreated, newGameResponse(created))
}

func (r *gameRoutes) endGame(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req EndGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, log, err)
			return
		}
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(c, log, err)
		return
	}

	game, err := r.service.EndGame(c.Request.Context(), id, end)
	if err != nil {
		respondError(c, log, err, "end game")
		return
	}
	c.JSON(http.StatusOK, newGameResponse(game))
}

func (r *gameRoutes) updateRefresh(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req UpdateRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}

	game, err := r.service.UpdateRefresh(c.Request.Context(), id, req.RefreshDay, req.RefreshTime)
	if err != nil {
		respondError(c, log, err, "update refresh")
		return
	}
	c.JSON(http.StatusOK, newGameResponse(game))
}
