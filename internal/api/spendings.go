package api

import (
	"net/http"

	"game_dashboard/internal/middleware"
	"game_dashboard/internal/model"
	"game_dashboard/internal/service"
	"game_dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type spendingRoutes struct {
	service service.SpendingServiceI
}

type CreateSpendingRequest struct {
	Title          string          `json:"title" binding:"required"`
	Paying         string          `json:"paying"`
	PayingDate     *string         `json:"paying_date"`
	Type           string          `json:"type"`
	ExpirationDays int             `json:"expiration_days" binding:"gte=0"`
	RewardMode     *string         `json:"reward_mode"`
	RewardItems    []RewardItemDTO `json:"reward_items"`
}

type RenewSpendingRequest struct {
	PayingDate     *string `json:"paying_date"`
	ExpirationDays *int    `json:"expiration_days"`
	Paying         *string `json:"paying"`
}

// UpdateRewardRequest changes only the fields present. clear_pass_levels
// removes the stored levels, lifting the pass gate.
type UpdateRewardRequest struct {
	RewardMode       *string         `json:"reward_mode"`
	RewardItems      []RewardItemDTO `json:"reward_items"`
	PassCurrentLevel *int            `json:"pass_current_level"`
	PassMaxLevel     *int            `json:"pass_max_level"`
	ClearPassLevels  bool            `json:"clear_pass_levels"`
}

func NewSpendingRoutes(handler *gin.RouterGroup, svc service.SpendingServiceI, authz *middleware.Authorization) {
	r := &spendingRoutes{service: svc}

	g := handler.Group("/games/:id/spendings")
	{
		g.GET("", r.listSpendings)
		g.POST("", authz.AdminOnly(), r.createSpending)
	}

	h := handler.Group("/spendings")
	{
		h.POST("/:id/renew", authz.AdminOnly(), r.renewSpending)
		h.PATCH("/:id/reward", authz.AdminOnly(), r.updateReward)
	}
}

func rewardMode(s *string) *model.RewardMode {
	if s == nil || *s == "" {
		return nil
	}
	m := model.RewardMode(*s)
	return &m
}

func (r *spendingRoutes) listSpendings(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	spendings, err := r.service.ListSpendings(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "list spendings")
		return
	}

	out := make([]SpendingResponse, len(spendings))
	for i := range spendings {
		out[i] = newSpendingResponse(&spendings[i])
	}
	c.JSON(http.StatusOK, out)
}

func (r *spendingRoutes) createSpending(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req CreateSpendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}
	paying, err := parseDate(req.PayingDate)
	if err != nil {
		badRequest(c, log, err)
		return
	}

	sp := &model.Spending{
		GameID:         id,
		Title:          req.Title,
		Paying:         req.Paying,
		Type:           req.Type,
		ExpirationDays: req.ExpirationDays,
		RewardItems:    toRewardItems(req.RewardItems),
	}
	if paying != nil {
		sp.PayingDate = *paying
	}
	if m := rewardMode(req.RewardMode); m != nil {
		sp.RewardMode = *m
	}

	view, err := r.service.CreateSpending(c.Request.Context(), sp)
	if err != nil {
		respondError(c, log, err, "create spending")
		return
	}

	log.Info("spending created", zap.Int64("game_id", id), zap.Int64("spending_id", view.ID))
	c.JSON(http.StatusCreated, newSpendingResponse(view))
}

func (r *spendingRoutes) renewSpending(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req RenewSpendingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, log, err)
			return
		}
	}
	paying, err := parseDate(req.PayingDate)
	if err != nil {
		badRequest(c, log, err)
		return
	}

	view, err := r.service.RenewSpending(c.Request.Context(), id, service.RenewInput{
		PayingDate:     paying,
		ExpirationDays: req.ExpirationDays,
		Paying:         req.Paying,
	})
	if err != nil {
		respondError(c, log, err, "renew spending")
		return
	}
	c.JSON(http.StatusOK, newSpendingResponse(view))
}

func (r *spendingRoutes) updateReward(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}
	if req.PassCurrentLevel != nil && req.PassMaxLevel != nil && *req.PassCurrentLevel > *req.PassMaxLevel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pass_current_level exceeds pass_max_level"})
		return
	}

	view, err := r.service.UpdateRewardConfig(c.Request.Context(), id, service.RewardConfig{
		Mode:             rewardMode(req.RewardMode),
		Items:            toRewardItems(req.RewardItems),
		PassCurrentLevel: req.PassCurrentLevel,
		PassMaxLevel:     req.PassMaxLevel,
		ClearPassLevels:  req.ClearPassLevels,
	})
	if err != nil {
		respondError(c, log, err, "update spending reward")
		return
	}
	c.JSON(http.StatusOK, newSpendingResponse(view))
}
