package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	logg        *logger.Logger
}

func NewAuthHandler(authService service.AuthService, logg *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logg: logg}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register godoc
// @Summary Register a new user (coach or client)
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body service.RegisterInput true "Registration details"
// @Success 201 {object} domain.User
// @Failure 400 {object} errorResponse "Validation error"
// @Failure 409 {object} errorResponse "Email already exists"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body service.LoginInput true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} errorResponse "Invalid credentials"
// @Failure 429 {object} errorResponse "Too many attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	token, user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) Session(c *gin.Context) {
	session, err := h.authService.GetSession(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
