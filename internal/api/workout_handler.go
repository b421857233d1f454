package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

// WorkoutHandler serves plans, their sessions and the logs clients record
// against them.
type WorkoutHandler struct {
	planService    service.WorkoutPlanService
	sessionService service.WorkoutSessionService
	logService     service.WorkoutLogService
	logg           *logger.Logger
}

func NewWorkoutHandler(
	planService service.WorkoutPlanService,
	sessionService service.WorkoutSessionService,
	logService service.WorkoutLogService,
	logg *logger.Logger,
) *WorkoutHandler {
	return &WorkoutHandler{
		planService:    planService,
		sessionService: sessionService,
		logService:     logService,
		logg:           logg,
	}
}

// --- Plans ---

func (h *WorkoutHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(plans))
}

func (h *WorkoutHandler) GetPlan(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "planId")
	if !ok {
		return
	}
	plan, err := h.planService.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreatePlan godoc
// @Summary Create a workout plan for one of the coach's clients
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body domain.WorkoutPlanInput true "Plan"
// @Success 201 {object} domain.WorkoutPlan
// @Failure 400 {object} errorResponse "Validation error, e.g. end date before start date"
// @Failure 404 {object} errorResponse "Client not found"
// @Router /workout-plans [post]
func (h *WorkoutHandler) CreatePlan(c *gin.Context) {
	var req domain.WorkoutPlanInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	plan, err := h.planService.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *WorkoutHandler) UpdatePlan(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "planId")
	if !ok {
		return
	}
	var patch domain.WorkoutPlanPatch
	if !bindJSON(c, h.logg, &patch) {
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *WorkoutHandler) DeletePlan(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "planId")
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Sessions ---

func (h *WorkoutHandler) ListSessions(c *gin.Context) {
	planID, ok := uuidParam(c, h.logg, "planId")
	if !ok {
		return
	}
	sessions, err := h.sessionService.List(c.Request.Context(), mustActor(c), planID)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(sessions))
}

func (h *WorkoutHandler) GetSession(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "sessionId")
	if !ok {
		return
	}
	session, err := h.sessionService.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *WorkoutHandler) CreateSession(c *gin.Context) {
	var req domain.WorkoutSessionInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	session, err := h.sessionService.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *WorkoutHandler) UpdateSession(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "sessionId")
	if !ok {
		return
	}
	var patch domain.WorkoutSessionPatch
	if !bindJSON(c, h.logg, &patch) {
		return
	}
	session, err := h.sessionService.Update(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *WorkoutHandler) DeleteSession(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "sessionId")
	if !ok {
		return
	}
	if err := h.sessionService.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) ListSessionExercises(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "sessionId")
	if !ok {
		return
	}
	items, err := h.sessionService.ListExercises(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(items))
}

func (h *WorkoutHandler) AddSessionExercise(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "sessionId")
	if !ok {
		return
	}
	var req domain.SessionExerciseInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	item, err := h.sessionService.AddExercise(c.Request.Context(), mustActor(c), id, req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *WorkoutHandler) UpdateSessionExercise(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "sessionExerciseId")
	if !ok {
		return
	}
	var patch domain.SessionExercisePatch
	if !bindJSON(c, h.logg, &patch) {
		return
	}
	item, err := h.sessionService.UpdateExercise(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *WorkoutHandler) RemoveSessionExercise(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "sessionExerciseId")
	if !ok {
		return
	}
	if err := h.sessionService.RemoveExercise(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Logs ---

// ListLogs expects ?clientId=; clients pass their own id.
func (h *WorkoutHandler) ListLogs(c *gin.Context) {
	clientID, ok := uuidQuery(c, h.logg, "clientId")
	if !ok {
		return
	}
	logs, err := h.logService.List(c.Request.Context(), mustActor(c), clientID)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (h *WorkoutHandler) GetLog(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	log, err := h.logService.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *WorkoutHandler) CreateLog(c *gin.Context) {
	var req domain.WorkoutLogInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	log, err := h.logService.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (h *WorkoutHandler) UpdateLog(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	var patch domain.WorkoutLogPatch
	if !bindJSON(c, h.logg, &patch) {
		return
	}
	log, err := h.logService.Update(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *WorkoutHandler) DeleteLog(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	if err := h.logService.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}
