package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/progress/application"
	"github.com/saransh1220/coursehub/internal/modules/progress/domain"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

type ProgressResponse struct {
	CourseProgressPercentage float64            `json:"courseProgressPercentage"`
	CompletedLectures        int                `json:"completedLectures"`
	AllLectures              int                `json:"allLectures"`
	NoLectures               bool               `json:"noLectures"`
	Progress                 []*domain.Progress `json:"progress"`
}

type ProgressHandler struct {
	service application.ProgressService
}

func NewProgressHandler(service application.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// Record handles POST /progress?course=<id>&lectureId=<id>
func (h *ProgressHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, ok := queryUUID(w, r, "course")
	if !ok {
		return
	}
	lectureID, ok := queryUUID(w, r, "lectureId")
	if !ok {
		return
	}

	result, err := h.service.RecordCompletion(r.Context(), userID, courseID, lectureID)
	if err != nil {
		writeProgressError(w, "ProgressHandler.Record", err)
		return
	}
	if result == domain.AlreadyRecorded {
		utils.WriteMessage(w, http.StatusOK, "Progress recorded")
		return
	}
	utils.WriteMessage(w, http.StatusCreated, "New Progress added")
}

// Get handles GET /progress?course=<id>
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, ok := queryUUID(w, r, "course")
	if !ok {
		return
	}

	report, err := h.service.GetProgress(r.Context(), userID, courseID)
	if err != nil {
		writeProgressError(w, "ProgressHandler.Get", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ProgressResponse{
		CourseProgressPercentage: report.Percentage,
		CompletedLectures:        report.CompletedCount,
		AllLectures:              report.TotalCount,
		NoLectures:               report.NoLectures,
		Progress:                 []*domain.Progress{report.Progress},
	})
}

func queryUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		utils.WriteError(w, http.StatusBadRequest, name+" is required", nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func writeProgressError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotEnrolled):
		utils.WriteError(w, http.StatusForbidden, "You have not subscribed to this course", nil)
	case errors.Is(err, domain.ErrProgressNotFound):
		utils.WriteError(w, http.StatusNotFound, "No progress found", nil)
	case errors.Is(err, catalogDomain.ErrLectureNotFound):
		utils.WriteError(w, http.StatusNotFound, "Lecture not found", nil)
	case errors.Is(err, catalogDomain.ErrCourseNotFound):
		utils.WriteError(w, http.StatusNotFound, "Course not found", nil)
	default:
		log.Printf("[%s] %v", op, err)
		utils.WriteError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
