package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

type UserHandler struct {
	userService service.UserService
	logg        *logger.Logger
}

func NewUserHandler(userService service.UserService, logg *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, logg: logg}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetCurrentUser(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe changes the caller's name and profile fields present in the body.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var patch domain.ProfilePatch
	if !bindJSON(c, h.logg, &patch) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), mustActor(c), patch)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListCoaches(c *gin.Context) {
	rels, err := h.userService.ListCoaches(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(rels))
}

func (h *UserHandler) ConfirmCoach(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "relationshipId")
	if !ok {
		return
	}
	rel, err := h.userService.ConfirmCoach(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

// nonNil makes empty lists encode as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
