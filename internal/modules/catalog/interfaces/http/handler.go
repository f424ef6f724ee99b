package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	"github.com/saransh1220/coursehub/internal/modules/catalog/application"
	"github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/catalog/infrastructure/cache"
	fsdomain "github.com/saransh1220/coursehub/internal/modules/filestorage/domain"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

const presignTTL = time.Hour

type CourseHandler struct {
	service     application.CourseService
	fileService FileService
	cache       *cache.CourseCache
}

func NewCourseHandler(service application.CourseService, fileService FileService, courseCache *cache.CourseCache) *CourseHandler {
	return &CourseHandler{
		service:     service,
		fileService: fileService,
		cache:       courseCache,
	}
}

// List handles GET /courses. Only the unfiltered list is cached.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CourseFilter{
		Keyword:  strings.TrimSpace(firstNonEmpty(q.Get("keyword"), q.Get("search"))),
		Category: strings.TrimSpace(q.Get("category")),
	}

	if filter.IsZero() {
		if h.serveCached(w, r.Context(), cache.CourseListKey()) {
			return
		}
	}

	courses, err := h.service.ListCourses(r.Context(), filter)
	if err != nil {
		log.Printf("[CourseHandler.List] %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to list courses", nil)
		return
	}
	for i := range courses {
		h.presignCourse(r.Context(), &courses[i])
	}

	resp := CourseListResponse{Courses: courses}
	if filter.IsZero() {
		h.store(r.Context(), cache.CourseListKey(), resp)
	}
	w.Header().Set("X-Cache", "MISS")
	utils.WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /courses/{id}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	cacheKey := cache.CourseKey(id)
	if h.serveCached(w, r.Context(), cacheKey) {
		return
	}

	course, err := h.service.GetCourse(r.Context(), id)
	if err != nil {
		writeCatalogError(w, "CourseHandler.Get", err)
		return
	}
	h.presignCourse(r.Context(), course)

	resp := CourseEnvelope{Course: course}
	h.store(r.Context(), cacheKey, resp)
	w.Header().Set("X-Cache", "MISS")
	utils.WriteJSON(w, http.StatusOK, resp)
}

// ListLectures handles GET /courses/{id}/lectures
func (h *CourseHandler) ListLectures(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	lectures, err := h.service.ListLectures(r.Context(), viewer, id)
	if err != nil {
		writeCatalogError(w, "CourseHandler.ListLectures", err)
		return
	}
	for i := range lectures {
		h.presignLecture(r.Context(), &lectures[i])
	}
	utils.WriteJSON(w, http.StatusOK, LectureListResponse{Lectures: lectures})
}

// GetLecture handles GET /lectures/{id}
func (h *CourseHandler) GetLecture(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	lecture, err := h.service.GetLecture(r.Context(), viewer, id)
	if err != nil {
		writeCatalogError(w, "CourseHandler.GetLecture", err)
		return
	}
	h.presignLecture(r.Context(), lecture)
	utils.WriteJSON(w, http.StatusOK, LectureEnvelope{Lecture: lecture})
}

// MyCourses handles GET /my-courses
func (h *CourseHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFrom(w, r)
	if !ok {
		return
	}

	cacheKey := cache.MyCoursesKey(viewer.UserID)
	if h.serveCached(w, r.Context(), cacheKey) {
		return
	}

	courses, err := h.service.MyCourses(r.Context(), viewer.UserID)
	if err != nil {
		writeCatalogError(w, "CourseHandler.MyCourses", err)
		return
	}
	for i := range courses {
		h.presignCourse(r.Context(), &courses[i])
	}

	resp := CourseListResponse{Courses: courses}
	h.store(r.Context(), cacheKey, resp)
	w.Header().Set("X-Cache", "MISS")
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *CourseHandler) serveCached(w http.ResponseWriter, ctx context.Context, key string) bool {
	payload, hit := h.cache.Get(ctx, key)
	if !hit {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
	return true
}

func (h *CourseHandler) store(ctx context.Context, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("[CourseHandler.store] marshal %s: %v", key, err)
		return
	}
	h.cache.Set(ctx, key, payload)
}

func (h *CourseHandler) presignCourse(ctx context.Context, c *domain.Course) {
	c.ImageURL = h.presign(ctx, c.ImageURL)
	c.ThumbnailURL = h.presign(ctx, c.ThumbnailURL)
}

func (h *CourseHandler) presignLecture(ctx context.Context, l *domain.Lecture) {
	l.VideoURL = h.presign(ctx, l.VideoURL)
}

// presign swaps a stored URL for a signed one. URLs the storage does not
// recognise are returned unchanged.
func (h *CourseHandler) presign(ctx context.Context, u *string) *string {
	if u == nil || *u == "" || h.fileService == nil {
		return u
	}
	key, err := h.fileService.GetKeyFromURL(*u)
	if err != nil {
		return u
	}
	signed, err := h.fileService.GetPresignedURL(ctx, key, presignTTL)
	if err != nil {
		log.Printf("[CourseHandler.presign] %s: %v", key, err)
		return u
	}
	return &signed
}

func writeCatalogError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrCourseNotFound):
		utils.WriteError(w, http.StatusNotFound, "Course not found", nil)
	case errors.Is(err, domain.ErrLectureNotFound):
		utils.WriteError(w, http.StatusNotFound, "Lecture not found", nil)
	case errors.Is(err, domain.ErrNotSubscribed):
		utils.WriteError(w, http.StatusForbidden, "You have not subscribed to this course", nil)
	case errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrMissingImage),
		errors.Is(err, domain.ErrMissingVideo),
		errors.Is(err, fsdomain.ErrUnsupportedFile),
		errors.Is(err, fsdomain.ErrFileTooLarge),
		errors.Is(err, fsdomain.ErrMissingFilename):
		utils.WriteError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		log.Printf("[%s] %v", op, err)
		utils.WriteError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func viewerFrom(w http.ResponseWriter, r *http.Request) (domain.Viewer, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return domain.Viewer{}, false
	}
	return domain.Viewer{UserID: userID, Role: middleware.RoleFromContext(r.Context())}, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
