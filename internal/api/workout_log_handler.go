package api

import (
	"errors"
	"net/http"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLogHandler records and lists completed routines.
type WorkoutLogHandler struct {
	workoutLogs service.WorkoutLogService
	loc         *time.Location
}

func NewWorkoutLogHandler(workoutLogs service.WorkoutLogService, loc *time.Location) *WorkoutLogHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &WorkoutLogHandler{workoutLogs: workoutLogs, loc: loc}
}

type LogWorkoutRequest struct {
	RoutineID       string     `json:"routineId" binding:"required"`
	ProgramID       string     `json:"programId"`
	CompletedAt     *time.Time `json:"completedAt"`
	DurationMinutes int        `json:"durationMinutes" binding:"omitempty,min=0"`
	Notes           string     `json:"notes" binding:"omitempty,max=1000"`
}

// LogWorkout godoc
// @Summary Log a completed routine
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param log body LogWorkoutRequest true "Workout"
// @Success 201 {object} WorkoutLogResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts/logs [post]
func (h *WorkoutLogHandler) LogWorkout(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
		return
	}
	in := service.LogWorkoutInput{
		RoutineID:       routineID,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
	if req.ProgramID != "" {
		programID, err := primitive.ObjectIDFromHex(req.ProgramID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
			return
		}
		in.ProgramID = &programID
	}
	if req.CompletedAt != nil {
		in.CompletedAt = *req.CompletedAt
	}

	entry, err := h.workoutLogs.LogWorkout(c.Request.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoutineRequired),
			errors.Is(err, service.ErrCompletedInFuture),
			errors.Is(err, service.ErrInvalidDuration):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			log.WithError(err).Error("failed to log workout")
			abortWithError(c, http.StatusInternalServerError, "Failed to log workout.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutLogToResponse(entry))
}

// GetLogs godoc
// @Summary Workouts logged on a day
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date as YYYY-MM-DD, defaults to today"
// @Success 200 {array} WorkoutLogResponse
// @Router /workouts/logs [get]
func (h *WorkoutLogHandler) GetLogs(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var date time.Time
	if raw := c.Query("date"); raw != "" {
		date, err = domain.ParseDate(raw, h.loc)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD.")
			return
		}
	}

	logs, err := h.workoutLogs.GetLogsForDate(c.Request.Context(), userID, date)
	if err != nil {
		log.WithError(err).Error("failed to list workout logs")
		abortWithError(c, http.StatusInternalServerError, "Failed to list workout logs.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutLogsToResponse(logs))
}
