package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

type ExerciseHandler struct {
	exerciseService service.ExerciseService
	logg            *logger.Logger
}

func NewExerciseHandler(exerciseService service.ExerciseService, logg *logger.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, logg: logg}
}

// ListExercises godoc
// @Summary List the base library plus the coach's own exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Exercise
// @Failure 403 {object} errorResponse "Not a coach"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.List(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(exercises))
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req domain.ExerciseInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	exercise, err := h.exerciseService.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "exerciseId")
	if !ok {
		return
	}
	var patch domain.ExercisePatch
	if !bindJSON(c, h.logg, &patch) {
		return
	}
	exercise, err := h.exerciseService.Update(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "exerciseId")
	if !ok {
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}
