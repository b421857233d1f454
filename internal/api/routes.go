package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/database"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/metrics"
	"supacoach/coach-api/internal/ratelimit"
	"supacoach/coach-api/internal/service"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Auth           service.AuthService
	User           service.UserService
	Client         service.ClientService
	Invitation     service.InvitationService
	Dashboard      service.DashboardService
	Exercise       service.ExerciseService
	WorkoutPlan    service.WorkoutPlanService
	WorkoutSession service.WorkoutSessionService
	WorkoutLog     service.WorkoutLogService
	ProgressLog    service.ProgressLogService
	Goal           service.GoalService
	Message        service.MessageService
}

// RouterOptions carries the platform pieces around the handlers. Metrics,
// Redis and LimitStore may be nil.
type RouterOptions struct {
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	MetricsPath string
	Database    database.Pinger
	Redis       database.Pinger
	LimitStore  ratelimit.Store
	LoginLimit  ratelimit.Policy
	AcceptLimit ratelimit.Policy
}

func SetupRoutes(router *gin.Engine, svc Services, opts RouterOptions) {
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	router.Use(RequestID(logg), Logging(logg), Recovery(logg))
	if opts.Metrics != nil {
		router.Use(Metrics(opts.Metrics))
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET("/healthz", healthHandler(opts.Database, opts.Redis))

	authHandler := NewAuthHandler(svc.Auth, logg)
	userHandler := NewUserHandler(svc.User, logg)
	clientHandler := NewClientHandler(svc.Client, svc.Invitation, logg)
	dashboardHandler := NewDashboardHandler(svc.Dashboard, logg)
	exerciseHandler := NewExerciseHandler(svc.Exercise, logg)
	workoutHandler := NewWorkoutHandler(svc.WorkoutPlan, svc.WorkoutSession, svc.WorkoutLog, logg)
	progressHandler := NewProgressLogHandler(svc.ProgressLog, logg)
	goalHandler := NewGoalHandler(svc.Goal, logg)
	messageHandler := NewMessageHandler(svc.Message, logg)

	authMiddleware := AuthMiddleware(svc.Auth, logg)
	coachOnly := RoleMiddleware(domain.RoleCoach)
	clientOnly := RoleMiddleware(domain.RoleClient)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", RateLimit(opts.LoginLimit, opts.LimitStore, logg), authHandler.Login)
			authGroup.GET("/session", authMiddleware, authHandler.Session)
		}

		// Public: the token in the path is the credential.
		apiV1.POST("/invitations/:token/accept",
			RateLimit(opts.AcceptLimit, opts.LimitStore, logg), clientHandler.AcceptInvitation)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		users := protected.Group("/users/me")
		{
			users.GET("", userHandler.GetMe)
			users.PATCH("", userHandler.UpdateMe)
			users.GET("/coaches", clientOnly, userHandler.ListCoaches)
			users.POST("/coaches/:relationshipId/confirm", clientOnly, userHandler.ConfirmCoach)
		}

		clients := protected.Group("/clients", coachOnly)
		{
			clients.GET("", clientHandler.ListClients)
			clients.POST("", clientHandler.LinkClient)
			clients.GET("/invitations", clientHandler.ListInvitations)
			clients.POST("/invitations", clientHandler.IssueInvitation)
			clients.POST("/invitations/:invitationId/resend", clientHandler.ResendInvitation)
			clients.GET("/:clientId", clientHandler.GetClient)
			clients.PATCH("/:clientId/status", clientHandler.UpdateStatus)
		}

		protected.GET("/dashboard/stats", coachOnly, dashboardHandler.GetStats)

		exercises := protected.Group("/exercises", coachOnly)
		{
			exercises.GET("", exerciseHandler.ListExercises)
			exercises.POST("", exerciseHandler.CreateExercise)
			exercises.GET("/:exerciseId", exerciseHandler.GetExercise)
			exercises.PATCH("/:exerciseId", exerciseHandler.UpdateExercise)
			exercises.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
		}

		// Plans and sessions are readable by the client they belong to;
		// the services reject client writes.
		plans := protected.Group("/workout-plans")
		{
			plans.GET("", workoutHandler.ListPlans)
			plans.POST("", workoutHandler.CreatePlan)
			plans.GET("/:planId", workoutHandler.GetPlan)
			plans.PATCH("/:planId", workoutHandler.UpdatePlan)
			plans.DELETE("/:planId", workoutHandler.DeletePlan)
			plans.GET("/:planId/sessions", workoutHandler.ListSessions)
		}

		sessions := protected.Group("/workout-sessions")
		{
			sessions.POST("", workoutHandler.CreateSession)
			sessions.GET("/:sessionId", workoutHandler.GetSession)
			sessions.PATCH("/:sessionId", workoutHandler.UpdateSession)
			sessions.DELETE("/:sessionId", workoutHandler.DeleteSession)
			sessions.GET("/:sessionId/exercises", workoutHandler.ListSessionExercises)
			sessions.POST("/:sessionId/exercises", workoutHandler.AddSessionExercise)
		}
		protected.PATCH("/session-exercises/:sessionExerciseId", workoutHandler.UpdateSessionExercise)
		protected.DELETE("/session-exercises/:sessionExerciseId", workoutHandler.RemoveSessionExercise)

		workoutLogs := protected.Group("/workout-logs")
		{
			workoutLogs.GET("", workoutHandler.ListLogs)
			workoutLogs.POST("", workoutHandler.CreateLog)
			workoutLogs.GET("/:logId", workoutHandler.GetLog)
			workoutLogs.PATCH("/:logId", workoutHandler.UpdateLog)
			workoutLogs.DELETE("/:logId", workoutHandler.DeleteLog)
		}

		progress := protected.Group("/progress-logs")
		{
			progress.GET("", progressHandler.ListLogs)
			progress.POST("", progressHandler.CreateLog)
			progress.GET("/:logId", progressHandler.GetLog)
			progress.PATCH("/:logId", progressHandler.UpdateLog)
			progress.DELETE("/:logId", progressHandler.DeleteLog)
			progress.POST("/:logId/photos/upload-url", progressHandler.RequestPhotoUpload)
			progress.POST("/:logId/photos", progressHandler.ConfirmPhotoUpload)
			progress.GET("/:logId/photos", progressHandler.ListPhotos)
		}
		protected.DELETE("/progress-photos/:photoId", progressHandler.DeletePhoto)

		goals := protected.Group("/goals")
		{
			goals.GET("", goalHandler.ListGoals)
			goals.POST("", goalHandler.CreateGoal)
			goals.PATCH("/:goalId", goalHandler.UpdateGoal)
			goals.DELETE("/:goalId", goalHandler.DeleteGoal)
		}

		messages := protected.Group("/messages")
		{
			messages.POST("", messageHandler.SendMessage)
			messages.GET("", messageHandler.GetConversation)
			messages.GET("/unread", messageHandler.UnreadCount)
			messages.POST("/:messageId/read", messageHandler.MarkRead)
		}
	}
}

// healthHandler reports 503 when a configured dependency fails its ping.
func healthHandler(db, redis database.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		healthy := true
		probe := func(name string, p database.Pinger) {
			if p == nil {
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				return
			}
			checks[name] = "ok"
		}
		probe("database", db)
		probe("redis", redis)

		status := http.StatusOK
		state := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
