package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studiobook/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAvailability struct {
	mock.Mock
}

func (m *mockAvailability) GetFinalSlots(ctx context.Context, artistID, weekStart string) (*models.WeekSlots, error) {
	args := m.Called(ctx, artistID, weekStart)
	res, _ := args.Get(0).(*models.WeekSlots)
	return res, args.Error(1)
}

func (m *mockAvailability) GetOriginalWorkingSlots(ctx context.Context, artistID, weekStart string) (*models.WeekSlots, error) {
	args := m.Called(ctx, artistID, weekStart)
	res, _ := args.Get(0).(*models.WeekSlots)
	return res, args.Error(1)
}

func (m *mockAvailability) GetAvailableSlots(ctx context.Context, artistID, serviceID, date string, durationMinutes int) ([]models.BookableWindow, error) {
	args := m.Called(ctx, artistID, serviceID, date, durationMinutes)
	res, _ := args.Get(0).([]models.BookableWindow)
	return res, args.Error(1)
}

type mockSchedule struct {
	mock.Mock
}

func (m *mockSchedule) AddWorkingTemplate(ctx context.Context, artistID string, req models.WorkingTemplateRequest) (*models.WorkingTemplate, error) {
	args := m.Called(ctx, artistID, req)
	res, _ := args.Get(0).(*models.WorkingTemplate)
	return res, args.Error(1)
}

func (m *mockSchedule) UpdateWorkingTemplate(ctx context.Context, id string, req models.WorkingTemplateRequest) (*models.WorkingTemplate, error) {
	args := m.Called(ctx, id, req)
	res, _ := args.Get(0).(*models.WorkingTemplate)
	return res, args.Error(1)
}

func (m *mockSchedule) DeleteWorkingTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.WorkingTemplate)
	return res, args.Error(1)
}

func (m *mockSchedule) AddOverride(ctx context.Context, artistID string, req models.OverrideRequest) (*models.OverrideSlot, error) {
	args := m.Called(ctx, artistID, req)
	res, _ := args.Get(0).(*models.OverrideSlot)
	return res, args.Error(1)
}

func (m *mockSchedule) UpdateOverride(ctx context.Context, id string, req models.OverrideRequest) (*models.OverrideSlot, error) {
	args := m.Called(ctx, id, req)
	res, _ := args.Get(0).(*models.OverrideSlot)
	return res, args.Error(1)
}

func (m *mockSchedule) DeleteOverride(ctx context.Context, id string) (*models.OverrideSlot, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.OverrideSlot)
	return res, args.Error(1)
}

func (m *mockSchedule) AddBlocked(ctx context.Context, artistID string, req models.BlockedRequest) (*models.BlockedSlot, error) {
	args := m.Called(ctx, artistID, req)
	res, _ := args.Get(0).(*models.BlockedSlot)
	return res, args.Error(1)
}

func (m *mockSchedule) UpdateBlocked(ctx context.Context, id string, req models.BlockedRequest) (*models.BlockedSlot, error) {
	args := m.Called(ctx, id, req)
	res, _ := args.Get(0).(*models.BlockedSlot)
	return res, args.Error(1)
}

func (m *mockSchedule) DeleteBlocked(ctx context.Context, id string) (*models.BlockedSlot, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.BlockedSlot)
	return res, args.Error(1)
}

func newTestRouter(t *testing.T) (*gin.Engine, *mockAvailability, *mockSchedule) {
	t.Helper()
	avail := &mockAvailability{}
	sched := &mockSchedule{}
	t.Cleanup(func() {
		avail.AssertExpectations(t)
		sched.AssertExpectations(t)
	})

	hb := NewHandlerBundle(NewAvailabilityHandler(avail), NewScheduleHandler(sched), nil)
	r := gin.New()
	r.GET("/api/artists/:artistID/slots/final", hb.GetFinalSlotsHandler)
	r.GET("/api/artists/:artistID/slots/original", hb.GetOriginalSlotsHandler)
	r.GET("/api/artists/:artistID/availability", hb.GetAvailableSlots)
	r.POST("/api/artists/:artistID/templates", hb.AddTemplateHandler)
	r.PUT("/api/templates/:id", hb.UpdateTemplateHandler)
	r.DELETE("/api/templates/:id", hb.DeleteTemplateHandler)
	r.POST("/api/artists/:artistID/overrides", hb.AddOverrideHandler)
	r.PUT("/api/overrides/:id", hb.UpdateOverrideHandler)
	r.DELETE("/api/overrides/:id", hb.DeleteOverrideHandler)
	r.POST("/api/artists/:artistID/blocked", hb.AddBlockedHandler)
	r.PUT("/api/blocked/:id", hb.UpdateBlockedHandler)
	r.DELETE("/api/blocked/:id", hb.DeleteBlockedHandler)
	return r, avail, sched
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetFinalSlotsHandler(t *testing.T) {
	r, avail, _ := newTestRouter(t)
	week := &models.WeekSlots{
		ArtistID:  "a1",
		WeekStart: "2024-06-03",
		Timezone:  "UTC",
		Slots: []models.Interval{
			{ID: "working:t1", Date: "2024-06-03", Start: 540, End: 1020, Kind: models.KindWorking},
		},
		PendingBookings: []models.Interval{},
	}
	avail.On("GetFinalSlots", mock.Anything, "a1", "2024-06-05").Return(week, nil).Once()

	w := do(r, http.MethodGet, "/api/artists/a1/slots/final?weekStart=2024-06-05", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.WeekSlots
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *week, got)
}

func TestGetFinalSlotsHandlerRequiresWeekStart(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/artists/a1/slots/final", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOriginalSlotsHandlerMapsErrors(t *testing.T) {
	r, avail, _ := newTestRouter(t)
	avail.On("GetOriginalWorkingSlots", mock.Anything, "a1", "2024-06-03").
		Return(nil, fmt.Errorf("load week: %w", models.ErrRepositoryTimeout)).Once()

	w := do(r, http.MethodGet, "/api/artists/a1/slots/original?weekStart=2024-06-03", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestGetAvailableSlotsHandler(t *testing.T) {
	r, avail, _ := newTestRouter(t)
	windows := []models.BookableWindow{
		{Date: "2024-06-03", Start: 600, End: 630, Label: "10:00 - 10:30", ServiceID: "cut"},
	}
	avail.On("GetAvailableSlots", mock.Anything, "a1", "cut", "2024-06-03", 30).Return(windows, nil).Once()

	w := do(r, http.MethodGet, "/api/artists/a1/availability?serviceId=cut&date=2024-06-03&duration=30", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Duration int                     `json:"duration"`
		Windows  []models.BookableWindow `json:"windows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 30, body.Duration)
	require.Len(t, body.Windows, 1)
	assert.Equal(t, "10:00 - 10:30", body.Windows[0].Label)
}

func TestGetAvailableSlotsHandlerValidation(t *testing.T) {
	r, avail, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/artists/a1/availability?date=2024-06-03&duration=30", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/artists/a1/availability?serviceId=cut&date=2024-06-03&duration=half", nil).Code)

	avail.On("GetAvailableSlots", mock.Anything, "a1", "cut", "2024-06-03", 0).
		Return(nil, fmt.Errorf("%w: duration must be positive", models.ErrInvalidArgument)).Once()
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/artists/a1/availability?serviceId=cut&date=2024-06-03&duration=0", nil).Code)
}

func TestAddTemplateHandler(t *testing.T) {
	r, _, sched := newTestRouter(t)
	monday := 1
	req := models.WorkingTemplateRequest{Weekday: &monday, StartTime: "09:00", EndTime: "17:00"}
	sched.On("AddWorkingTemplate", mock.Anything, "a1", req).
		Return(&models.WorkingTemplate{ID: "t1", ArtistID: "a1", Weekday: time.Monday, StartTime: "09:00", EndTime: "17:00"}, nil).Once()

	w := do(r, http.MethodPost, "/api/artists/a1/templates", req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"t1"`)
}

func TestAddTemplateHandlerBindingErrors(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/artists/a1/templates", gin.H{"startTime": "09:00", "endTime": "17:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "weekday is required")

	w = do(r, http.MethodPost, "/api/artists/a1/templates", gin.H{"weekday": 9, "startTime": "09:00", "endTime": "17:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerErrorMapping(t *testing.T) {
	r, _, sched := newTestRouter(t)
	start := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
	req := models.OverrideRequest{StartAt: start, EndAt: start.Add(2 * time.Hour)}

	sched.On("AddOverride", mock.Anything, "a1", req).Return(nil, models.ErrOverlappingOverride).Once()
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/api/artists/a1/overrides", req).Code)

	sched.On("UpdateOverride", mock.Anything, "o9", req).Return(nil, fmt.Errorf("update override: %w", models.ErrNotFound)).Once()
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/api/overrides/o9", req).Code)

	sched.On("DeleteBlocked", mock.Anything, "b1").Return(nil, models.ErrCacheUnavailable).Once()
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodDelete, "/api/blocked/b1", nil).Code)

	breq := models.BlockedRequest{StartAt: start, EndAt: start}
	sched.On("AddBlocked", mock.Anything, "a1", breq).Return(nil, models.NewMalformedIntervalError("", "end is not after start")).Once()
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/artists/a1/blocked", breq).Code)

	sched.On("DeleteWorkingTemplate", mock.Anything, "t1").Return(nil, fmt.Errorf("boom")).Once()
	w := do(r, http.MethodDelete, "/api/templates/t1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestUpdateAndDeleteHandlers(t *testing.T) {
	r, _, sched := newTestRouter(t)
	start := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
	breq := models.BlockedRequest{StartAt: start, EndAt: start.Add(30 * time.Minute), Reason: "lunch"}

	sched.On("UpdateBlocked", mock.Anything, "b1", breq).Return(&models.BlockedSlot{ID: "b1", Reason: "lunch"}, nil).Once()
	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/api/blocked/b1", breq).Code)

	sched.On("DeleteOverride", mock.Anything, "o1").Return(&models.OverrideSlot{ID: "o1"}, nil).Once()
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/overrides/o1", nil).Code)

	tuesday := 2
	treq := models.WorkingTemplateRequest{Weekday: &tuesday, StartTime: "10:00", EndTime: "18:00"}
	sched.On("UpdateWorkingTemplate", mock.Anything, "t1", treq).Return(nil, models.ErrDuplicateWeekdayTemplate).Once()
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPut, "/api/templates/t1", treq).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrDuplicateWeekdayTemplate, http.StatusConflict},
		{models.ErrOverlappingBlocked, http.StatusConflict},
		{fmt.Errorf("get: %w", models.ErrNotFound), http.StatusNotFound},
		{models.NewMalformedIntervalError("x", "reversed"), http.StatusBadRequest},
		{models.ErrInvalidArgument, http.StatusBadRequest},
		{models.ErrRepositoryTimeout, http.StatusGatewayTimeout},
		{models.ErrCacheUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("other"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		got, _ := statusFor(tc.err)
		assert.Equal(t, tc.want, got, tc.err.Error())
	}
}
