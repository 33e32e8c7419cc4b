package api

import (
	"net/http"

	"game_dashboard/internal/middleware"
	"game_dashboard/internal/model"
	"game_dashboard/internal/service"
	"game_dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type characterRoutes struct {
	service service.CharacterServiceI
}

type CreateCharacterRequest struct {
	Title     string  `json:"title" binding:"required"`
	Level     *int    `json:"level"`
	Grade     *string `json:"grade"`
	Overpower *int    `json:"overpower"`
	Position  *string `json:"position"`
	Memo      *string `json:"memo"`
	IsHave    bool    `json:"is_have"`
}

type UpdateCharacterRequest struct {
	Level     *int    `json:"level"`
	Grade     *string `json:"grade"`
	Overpower *int    `json:"overpower"`
	IsHave    *bool   `json:"is_have"`
}

func NewCharacterRoutes(handler *gin.RouterGroup, svc service.CharacterServiceI, authz *middleware.Authorization) {
	r := &characterRoutes{service: svc}

	g := handler.Group("/games/:id/characters")
	{
		g.GET("", r.listCharacters)
		g.POST("", authz.AdminOnly(), r.createCharacter)
	}

	h := handler.Group("/characters")
	{
		h.POST("/:id/update", authz.AdminOnly(), r.updateCharacter)
	}
}

func (r *characterRoutes) listCharacters(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	characters, err := r.service.ListCharacters(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err, "list characters")
		return
	}

	out := make([]CharacterResponse, len(characters))
	for i, ch := range characters {
		out[i] = newCharacterResponse(ch)
	}
	c.JSON(http.StatusOK, out)
}

func (r *characterRoutes) createCharacter(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}

	ch, err := r.service.CreateCharacter(c.Request.Context(), &model.Character{
		GameID:    id,
		Title:     req.Title,
		Level:     req.Level,
		Grade:     req.Grade,
		Overpower: req.Overpower,
		Position:  req.Position,
		Memo:      req.Memo,
		IsHave:    req.IsHave,
	})
	if err != nil {
		respondError(c, log, err, "create character")
		return
	}
	c.JSON(http.StatusCreated, newCharacterResponse(ch))
}

func (r *characterRoutes) updateCharacter(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseID(c, log, "id")
	if !ok {
		return
	}

	var req UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, err)
		return
	}

	ch, err := r.service.UpdateCharacter(c.Request.Context(), id, model.CharacterPatch{
		Level:     req.Level,
		Grade:     req.Grade,
		Overpower: req.Overpower,
		IsHave:    req.IsHave,
	})
	if err != nil {
		respondError(c, log, err, "update character")
		return
	}
	c.JSON(http.StatusOK, newCharacterResponse(ch))
}
