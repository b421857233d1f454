package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

type GoalHandler struct {
	goalService service.GoalService
	logg        *logger.Logger
}

func NewGoalHandler(goalService service.GoalService, logg *logger.Logger) *GoalHandler {
	return &GoalHandler{goalService: goalService, logg: logg}
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	clientID, ok := uuidQuery(c, h.logg, "clientId")
	if !ok {
		return
	}
	goals, err := h.goalService.List(c.Request.Context(), mustActor(c), clientID)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(goals))
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req domain.GoalInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	goal, err := h.goalService.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "goalId")
	if !ok {
		return
	}
	var patch domain.GoalPatch
	if !bindJSON(c, h.logg, &patch) {
		return
	}
	goal, err := h.goalService.Update(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "goalId")
	if !ok {
		return
	}
	if err := h.goalService.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}
