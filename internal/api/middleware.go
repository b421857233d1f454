package api

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/metrics"
	"supacoach/coach-api/internal/ratelimit"
)

const (
	requestIDHeader = "X-Request-Id"
	contextActorKey = "actor"
)

// TokenParser verifies bearer tokens. service.AuthService satisfies it.
type TokenParser interface {
	ParseToken(token string) (domain.Actor, error)
}

func RequestID(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(logg.WithRequestID(c.Request.Context(), reqID))
		c.Next()
	}
}

// Logging writes one request.complete line per request.
func Logging(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := logg.WithFields(c.Request.Context(), map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		logg.Info(ctx, "request.complete")
	}
}

func Recovery(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("panic: %v", rec)
				ctx := logg.WithField(c.Request.Context(), "panic", fmt.Sprint(rec))
				logg.Error(ctx, "panic.recovered", err)
				abortWithError(c, nil, apperr.Internal(err))
			}
		}()
		c.Next()
	}
}

// Metrics records every request under its route pattern.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// AuthMiddleware requires a valid "Bearer <token>" header and stores the
// caller as a domain.Actor on the gin context.
func AuthMiddleware(tokens TokenParser, logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, logg, apperr.New(apperr.CodeUnauthorized, "authorization header is missing"))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, logg, apperr.New(apperr.CodeUnauthorized, "authorization header format must be Bearer {token}"))
			return
		}

		actor, err := tokens.ParseToken(strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, logg, err)
			return
		}

		c.Set(contextActorKey, actor)
		c.Request = c.Request.WithContext(logg.WithUserID(c.Request.Context(), actor.UserID.String()))
		c.Next()
	}
}

// RoleMiddleware must run after AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			abortWithError(c, nil, apperr.New(apperr.CodeUnauthorized, "authentication required"))
			return
		}
		if !slices.Contains(allowedRoles, actor.Role) {
			abortWithError(c, nil, apperr.Errorf(apperr.CodeForbidden, "role %q does not have permission", actor.Role))
			return
		}
		c.Next()
	}
}

// RateLimit counts requests per client IP under policy. A failing store
// lets the request through so the limiter never takes the endpoint down.
func RateLimit(policy ratelimit.Policy, store ratelimit.Store, logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.Enabled() || store == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		allowed, count, err := policy.Allow(ctx, store, c.ClientIP())
		if err != nil {
			logg.Error(logg.WithField(ctx, "policy", policy.Name), "ratelimit.store_failed", err)
			c.Next()
			return
		}
		if !allowed {
			logg.Warn(logg.WithFields(ctx, map[string]any{
				"policy": policy.Name,
				"count":  count,
				"limit":  policy.Limit,
			}), "ratelimit.exceeded")
			c.Header("Retry-After", fmt.Sprintf("%d", int(policy.Window.Seconds())))
			abortWithError(c, nil, apperr.New(apperr.CodeRateLimit, "too many requests"))
			return
		}
		c.Next()
	}
}

func actorFromContext(c *gin.Context) (domain.Actor, bool) {
	raw, exists := c.Get(contextActorKey)
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := raw.(domain.Actor)
	return actor, ok
}

// mustActor returns the caller set by AuthMiddleware.
func mustActor(c *gin.Context) domain.Actor {
	actor, ok := actorFromContext(c)
	if !ok {
		panic("api: route registered without AuthMiddleware")
	}
	return actor
}

// uuidParam parses the named path parameter, aborting with a validation
// error when it is not a UUID.
func uuidParam(c *gin.Context, logg *logger.Logger, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, logg, apperr.Validation("validation failed", map[string]string{name: "must be a valid UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

func uuidQuery(c *gin.Context, logg *logger.Logger, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		abortWithError(c, logg, apperr.Validation("validation failed", map[string]string{name: "must be a valid UUID"}))
		return uuid.Nil, false
	}
	return id, true
}
