package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/saransh1220/coursehub/internal/modules/catalog/application"
	"github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/shared/utils"
)

// CreateCourseRequest is the form part of POST /admin/courses
type CreateCourseRequest struct {
	Title       string  `form:"title" validate:"required,max=200"`
	Description string  `form:"description" validate:"max=5000"`
	Category    string  `form:"category" validate:"required,max=100"`
	Price       float64 `form:"price" validate:"gte=0"`
	Duration    string  `form:"duration" validate:"max=50"`
}

// AddLectureRequest is the form part of POST /admin/courses/{id}/lectures
type AddLectureRequest struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=5000"`
}

func parseCreateCourseRequest(r *http.Request) (*CreateCourseRequest, error) {
	req := &CreateCourseRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Duration:    strings.TrimSpace(r.FormValue("duration")),
	}
	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("price must be a number")
		}
		req.Price = price
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

func parseAddLectureRequest(r *http.Request) (*AddLectureRequest, error) {
	req := &AddLectureRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (req *CreateCourseRequest) toInput() application.NewCourse {
	return application.NewCourse{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Duration:    req.Duration,
	}
}

type CourseListResponse struct {
	Courses []domain.Course `json:"courses"`
}

type CourseEnvelope struct {
	Course *domain.Course `json:"course"`
}

type LectureListResponse struct {
	Lectures []domain.Lecture `json:"lectures"`
}

type LectureEnvelope struct {
	Lecture *domain.Lecture `json:"lecture"`
}

type CreatedCourseResponse struct {
	Message string         `json:"message"`
	Course  *domain.Course `json:"course"`
}

type CreatedLectureResponse struct {
	Message string          `json:"message"`
	Lecture *domain.Lecture `json:"lecture"`
}
