// Package app wires repositories into the services the API serves.
package app

import (
	"supacoach/coach-api/internal/api"
	"supacoach/coach-api/internal/config"
	"supacoach/coach-api/internal/database"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/mailer"
	"supacoach/coach-api/internal/metrics"
	"supacoach/coach-api/internal/repository"
	"supacoach/coach-api/internal/repository/postgres"
	"supacoach/coach-api/internal/service"
	"supacoach/coach-api/internal/storage"
)

// Deps are the external collaborators of the service layer. Messages and
// Storage are optional: messages fall back to the SQL store and photo
// operations report a dependency error without storage.
type Deps struct {
	DB         *database.Client
	Messages   repository.MessageRepository
	Sender     mailer.InvitationSender
	Storage    storage.FileStorage
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
	JWT        config.JWTConfig
	Invitation service.InvitationOptions
}

func NewServices(d Deps) api.Services {
	db := d.DB.DB()

	userRepo := postgres.NewUserRepository(db)
	relationshipRepo := postgres.NewRelationshipRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	exerciseRepo := postgres.NewExerciseRepository(db)
	planRepo := postgres.NewWorkoutPlanRepository(db)
	sessionRepo := postgres.NewWorkoutSessionRepository(db)
	sessionExerciseRepo := postgres.NewSessionExerciseRepository(db)
	workoutLogRepo := postgres.NewWorkoutLogRepository(db)
	progressLogRepo := postgres.NewProgressLogRepository(db)
	photoRepo := postgres.NewProgressPhotoRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	tx := postgres.NewTransactor(d.DB)

	messageRepo := d.Messages
	if messageRepo == nil {
		messageRepo = postgres.NewMessageRepository(db)
	}

	return api.Services{
		Auth:           service.NewAuthService(userRepo, tx, d.JWT, d.Logger),
		User:           service.NewUserService(userRepo, relationshipRepo, tx),
		Client:         service.NewClientService(userRepo, relationshipRepo, planRepo, progressLogRepo, goalRepo, d.Logger),
		Invitation:     service.NewInvitationService(invitationRepo, userRepo, tx, d.Sender, d.Metrics, d.Logger, d.Invitation),
		Dashboard:      service.NewDashboardService(relationshipRepo, planRepo, workoutLogRepo),
		Exercise:       service.NewExerciseService(exerciseRepo),
		WorkoutPlan:    service.NewWorkoutPlanService(planRepo, relationshipRepo),
		WorkoutSession: service.NewWorkoutSessionService(planRepo, sessionRepo, sessionExerciseRepo, exerciseRepo),
		WorkoutLog:     service.NewWorkoutLogService(workoutLogRepo, sessionRepo, planRepo, relationshipRepo, tx),
		ProgressLog:    service.NewProgressLogService(progressLogRepo, photoRepo, relationshipRepo, d.Storage, d.Logger),
		Goal:           service.NewGoalService(goalRepo, relationshipRepo),
		Message:        service.NewMessageService(messageRepo, relationshipRepo, d.Logger),
	}
}
