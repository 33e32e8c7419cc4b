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

type taskRoutes struct {
	service service.TaskServiceI
}

type UpdateStatesRequest struct {
	States []bool `json:"states"`
}

type UpdateLabelsRequest struct {
	Labels []string `json:"labels"`
}

type UpdateRewardsRequest struct {
	Rewards [][]RewardItemDTO `json:"rewards"`
}

func NewTaskRoutes(handler *gin.RouterGroup, svc service.TaskServiceI, authz *middleware.Authorization) {
	r := &taskRoutes{service: svc}

	h := handler.Group("/games/:id/tasks")
	{
		h.GET("", r.getState)
		h.PUT("/:periodicity/states", authz.AdminOnly(), r.updateStates)
		h.PUT("/:periodicity/labels", authz.AdminOnly(), r.updateLabels)
		h.PUT("/:periodicity/rewards", authz.AdminOnly(), r.updateRewards)
	}
}

func parsePeriodicity(c *gin.Context) (model.Periodicity, bool) {
	p := model.Periodicity(c.Param("periodicity"))
	if !p.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periodicity"})
		return "", false
	}
	return p, true
}

func (r *taskRoutes) getState(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	st, err := r.service.GetState(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "get task state")
		return
	}
	c.JSON(http.StatusOK, newTaskStateResponse(st))
}

func (r *taskRoutes) updateStates(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}
	p, ok := parsePeriodicity(c)
	if !ok {
		return
	}

	var req UpdateStatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}

	st, err := r.service.UpdateStates(c.Request.Context(), id, p, req.States)
	if err != nil {
		respondError(c, log, err, "update task states")
		return
	}

	log.Debug("task states updated", zap.Int64("game_id", id), zap.String("periodicity", string(p)))
	c.JSON(http.StatusOK, newTaskStateResponse(st))
}

func (r *taskRoutes) updateLabels(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}
	p, ok := parsePeriodicity(c)
	if !ok {
		return
	}

	var req UpdateLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}

	st, err := r.service.UpdateTaskLabels(c.Request.Context(), id, p, req.Labels)
	if err != nil {
		respondError(c, log, err, "update task labels")
		return
	}
	c.JSON(http.StatusOK, newTaskStateResponse(st))
}

func (r *taskRoutes) updateRewards(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}
	p, ok := parsePeriodicity(c)
	if !ok {
		return
	}

	var req UpdateRewardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}

	bundles := make([][]model.RewardItem, len(req.Rewards))
	for i, b := range req.Rewards {
		bundles[i] = toRewardItems(b)
	}

	st, err := r.service.UpdateTaskRewards(c.Request.Context(), id, p, bundles)
	if err != nil {
		respondError(c, log, err, "update task rewards")
		return
	}
	c.JSON(http.StatusOK, newTaskStateResponse(st))
}
