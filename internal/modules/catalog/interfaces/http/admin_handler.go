package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/saransh1220/coursehub/internal/modules/catalog/application"
	"github.com/saransh1220/coursehub/internal/modules/catalog/infrastructure/cache"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

const (
	maxImageRequest = 12 << 20
	maxVideoRequest = 2<<30 + 1<<20
	multipartMemory = 32 << 20
)

// Create handles POST /admin/courses (multipart: fields + "image")
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := viewerFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageRequest)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		log.Printf("[CourseHandler.Create] ParseMultipartForm error: %v", err)
		utils.WriteError(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	req, err := parseCreateCourseRequest(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	image, err := formUpload(r, "image")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "image is required", err)
		return
	}
	defer image.File.Close()

	input := req.toInput()
	input.CreatedBy = viewer.UserID
	course, err := h.service.CreateCourse(r.Context(), input, image)
	if err != nil {
		writeCatalogError(w, "CourseHandler.Create", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.CourseListKey())
	utils.WriteJSON(w, http.StatusCreated, CreatedCourseResponse{Message: "Course Created Successfully", Course: course})
}

// AddLecture handles POST /admin/courses/{id}/lectures (multipart: fields + "video")
func (h *CourseHandler) AddLecture(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxVideoRequest)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		log.Printf("[CourseHandler.AddLecture] ParseMultipartForm error: %v", err)
		utils.WriteError(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	req, err := parseAddLectureRequest(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	video, err := formUpload(r, "video")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "video is required", err)
		return
	}
	defer video.File.Close()

	lecture, err := h.service.AddLecture(r.Context(), courseID, application.NewLecture{
		Title:       req.Title,
		Description: req.Description,
	}, video)
	if err != nil {
		writeCatalogError(w, "CourseHandler.AddLecture", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.CourseListKey(), cache.CourseKey(courseID))
	utils.WriteJSON(w, http.StatusCreated, CreatedLectureResponse{Message: "Lecture Added", Lecture: lecture})
}

// Delete handles DELETE /admin/courses/{id}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCourse(r.Context(), id); err != nil {
		writeCatalogError(w, "CourseHandler.Delete", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.CourseListKey(), cache.CourseKey(id))
	// enrolled lists of every buyer may still carry the course
	h.cache.InvalidateAllMyCourses(r.Context())
	utils.WriteMessage(w, http.StatusOK, "Course Deleted")
}

// DeleteLecture handles DELETE /admin/lectures/{id}
func (h *CourseHandler) DeleteLecture(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	lecture, err := h.service.DeleteLecture(r.Context(), id)
	if err != nil {
		writeCatalogError(w, "CourseHandler.DeleteLecture", err)
		return
	}

	h.cache.Invalidate(r.Context(), cache.CourseListKey(), cache.CourseKey(lecture.CourseID))
	utils.WriteMessage(w, http.StatusOK, "Lecture Deleted")
}

func formUpload(r *http.Request, field string) (application.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return application.Upload{}, errors.New(field + " file is missing")
	}
	if err != nil {
		return application.Upload{}, err
	}
	return application.Upload{File: file, Header: header}, nil
}
