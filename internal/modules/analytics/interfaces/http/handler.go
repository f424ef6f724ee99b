package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/modules/analytics/application"
	"github.com/saransh1220/coursehub/internal/modules/analytics/domain"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

// AnalyticsHandler serves the admin sales reports. Routes are mounted
// behind RequireAdmin.
type AnalyticsHandler struct {
	service application.AnalyticsService
}

func NewAnalyticsHandler(service application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetOverview handles GET /admin/analytics/overview?days=&sort=
func (h *AnalyticsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days")
	sortBy := r.URL.Query().Get("sort")

	stats, err := h.service.GetOverview(r.Context(), days, sortBy)
	if err != nil {
		log.Printf("[AnalyticsHandler.GetOverview] %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch analytics overview", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// GetTopCourses handles GET /admin/analytics/top-courses?limit=&sortBy=
func (h *AnalyticsHandler) GetTopCourses(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit")
	sortBy := r.URL.Query().Get("sortBy")

	stats, err := h.service.GetTopCourses(r.Context(), limit, sortBy)
	if err != nil {
		log.Printf("[AnalyticsHandler.GetTopCourses] %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch top courses", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// GetCourseStats handles GET /admin/courses/{id}/analytics
func (h *AnalyticsHandler) GetCourseStats(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid course id", nil)
		return
	}

	stats, err := h.service.GetCourseStats(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Course not found", nil)
			return
		}
		log.Printf("[AnalyticsHandler.GetCourseStats] %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch course analytics", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// queryInt returns 0 for a missing or malformed value; the service applies defaults
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
