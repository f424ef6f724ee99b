package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/saransh1220/coursehub/internal/gateway/middleware"
	catalogDomain "github.com/saransh1220/coursehub/internal/modules/catalog/domain"
	"github.com/saransh1220/coursehub/internal/modules/progress/domain"
	progressHTTP "github.com/saransh1220/coursehub/internal/modules/progress/interfaces/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProgressService struct{ mock.Mock }

func (m *mockProgressService) RecordCompletion(ctx context.Context, userID, courseID, lectureID uuid.UUID) (domain.Completion, error) {
	args := m.Called(ctx, userID, courseID, lectureID)
	return args.Get(0).(domain.Completion), args.Error(1)
}

func (m *mockProgressService) GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func asUser(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), id, "user"))
}

func bodyMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestProgressHandler_Record(t *testing.T) {
	userID, courseID, lectureID := uuid.New(), uuid.New(), uuid.New()
	target := "/progress?course=" + courseID.String() + "&lectureId=" + lectureID.String()

	tests := []struct {
		name   string
		result domain.Completion
		err    error
		status int
		msg    string
	}{
		{"new", domain.Recorded, nil, http.StatusCreated, "New Progress added"},
		{"repeat", domain.AlreadyRecorded, nil, http.StatusOK, "Progress recorded"},
		{"not_enrolled", 0, domain.ErrNotEnrolled, http.StatusForbidden, "You have not subscribed to this course"},
		{"lecture_missing", 0, catalogDomain.ErrLectureNotFound, http.StatusNotFound, "Lecture not found"},
		{"internal", 0, errors.New("db down"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockProgressService)
			svc.On("RecordCompletion", mock.Anything, userID, courseID, lectureID).Return(tt.result, tt.err).Once()

			w := httptest.NewRecorder()
			progressHTTP.NewProgressHandler(svc).Record(w, asUser(httptest.NewRequest(http.MethodPost, target, nil), userID))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.msg, bodyMessage(t, w))
		})
	}
}

func TestProgressHandler_Record_BadQuery(t *testing.T) {
	svc := new(mockProgressService)
	h := progressHTTP.NewProgressHandler(svc)
	userID := uuid.New()

	w := httptest.NewRecorder()
	h.Record(w, asUser(httptest.NewRequest(http.MethodPost, "/progress?lectureId="+uuid.NewString(), nil), userID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "course is required", bodyMessage(t, w))

	w = httptest.NewRecorder()
	h.Record(w, asUser(httptest.NewRequest(http.MethodPost, "/progress?course="+uuid.NewString()+"&lectureId=x", nil), userID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid lectureId", bodyMessage(t, w))

	w = httptest.NewRecorder()
	h.Record(w, httptest.NewRequest(http.MethodPost, "/progress", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProgressHandler_Get(t *testing.T) {
	userID, courseID := uuid.New(), uuid.New()
	svc := new(mockProgressService)
	svc.On("GetProgress", mock.Anything, userID, courseID).Return(&domain.Report{
		CompletedCount: 1,
		TotalCount:     4,
		Percentage:     25,
		Progress:       &domain.Progress{UserID: userID, CourseID: courseID},
	}, nil).Once()

	w := httptest.NewRecorder()
	progressHTTP.NewProgressHandler(svc).Get(w, asUser(httptest.NewRequest(http.MethodGet, "/progress?course="+courseID.String(), nil), userID))

	require.Equal(t, http.StatusOK, w.Code)
	var body progressHTTP.ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 25.0, body.CourseProgressPercentage)
	assert.Equal(t, 1, body.CompletedLectures)
	assert.Equal(t, 4, body.AllLectures)
	require.Len(t, body.Progress, 1)
	assert.Equal(t, courseID, body.Progress[0].CourseID)
}

func TestProgressHandler_Get_NotFound(t *testing.T) {
	userID, courseID := uuid.New(), uuid.New()
	svc := new(mockProgressService)
	svc.On("GetProgress", mock.Anything, userID, courseID).Return(nil, domain.ErrProgressNotFound).Once()

	w := httptest.NewRecorder()
	progressHTTP.NewProgressHandler(svc).Get(w, asUser(httptest.NewRequest(http.MethodGet, "/progress?course="+courseID.String(), nil), userID))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No progress found", bodyMessage(t, w))
}
