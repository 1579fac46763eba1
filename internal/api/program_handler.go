package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/schedule"
	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ProgramHandler serves program day resolution and navigation.
type ProgramHandler struct {
	programDays service.ProgramDayService
	loc         *time.Location
}

// NewProgramHandler creates a ProgramHandler. loc is the zone dates in
// query strings are interpreted in.
func NewProgramHandler(programDays service.ProgramDayService, loc *time.Location) *ProgramHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ProgramHandler{programDays: programDays, loc: loc}
}

// GetDay godoc
// @Summary Resolve a date against the active program
// @Tags Program
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date as YYYY-MM-DD, defaults to today"
// @Success 200 {object} ResolvedDayResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Failure 503 {object} gin.H "Store temporarily unavailable"
// @Router /program/day [get]
func (h *ProgramHandler) GetDay(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	date, ok := h.dateQuery(c)
	if !ok {
		return
	}

	view, err := h.programDays.ResolveDay(c.Request.Context(), userID, date)
	if err != nil {
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapResolvedDayToResponse(view.Date, view.Day, view.ThumbnailURLs))
}

// GetDays godoc
// @Summary Navigation index of the active program
// @Tags Program
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProgramDayResponse
// @Router /program/days [get]
func (h *ProgramHandler) GetDays(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	days, err := h.programDays.GetIndex(c.Request.Context(), userID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramDaysToResponse(days))
}

// GetNavigator godoc
// @Summary Current navigator state
// @Tags Program
// @Produce json
// @Security BearerAuth
// @Success 200 {object} NavigatorResponse
// @Router /program/navigator [get]
func (h *ProgramHandler) GetNavigator(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	view, err := h.programDays.NavigatorState(c.Request.Context(), userID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapNavigatorToResponse(view))
}

// Navigate godoc
// @Summary Move the navigator
// @Description Returns the new selection at once; the day resolves in the background.
// @Tags Program
// @Produce json
// @Security BearerAuth
// @Success 200 {object} NavigatorResponse
// @Router /program/navigator/{previous|next|today|retry|refresh} [post]
func (h *ProgramHandler) Navigate(move service.NavigatorMove) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.navigate(c, move, 0)
	}
}

// GoToDay godoc
// @Summary Select a navigation index entry
// @Tags Program
// @Produce json
// @Security BearerAuth
// @Param n path int true "0-based index position"
// @Success 200 {object} NavigatorResponse
// @Failure 400 {object} gin.H "Invalid position"
// @Router /program/navigator/day/{n} [post]
func (h *ProgramHandler) GoToDay(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Day position must be an integer.")
		return
	}
	h.navigate(c, service.MoveDay, n)
}

func (h *ProgramHandler) navigate(c *gin.Context, move service.NavigatorMove, day int) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	view, err := h.programDays.Navigate(c.Request.Context(), userID, move, day)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMove) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapNavigatorToResponse(view))
}

// dateQuery parses the optional ?date= parameter. The zero time means absent.
func (h *ProgramHandler) dateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Time{}, true
	}
	date, err := domain.ParseDate(raw, h.loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return date, true
}

func respondScheduleError(c *gin.Context, err error) {
	if schedule.IsTransient(err) {
		log.WithError(err).Warn("program read failed")
		abortWithError(c, http.StatusServiceUnavailable, errorMessage(err))
		return
	}
	log.WithError(err).Error("program request failed")
	abortWithError(c, http.StatusInternalServerError, errorMessage(err))
}
