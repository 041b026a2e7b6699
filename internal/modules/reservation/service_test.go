package reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bemooooooooo/coworking-client/internal/api"
	"github.com/bemooooooooo/coworking-client/internal/domain"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

func newService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session := api.NewSession()
	session.Set("access-1", "refresh-1")
	return NewService(api.NewClient(srv.URL, session))
}

func window(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start, err := timeutil.ParseWire("2024-06-10 10:00:00")
	require.NoError(t, err)
	return start, start.Add(time.Hour)
}

func TestService_Create(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/reservations", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 2, req["workspaceId"])
		assert.Equal(t, "2024-06-10 10:00:00", req["startTime"])
		assert.Equal(t, "2024-06-10 11:00:00", req["endTime"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": 5, "userId": 7, "workspaceId": 2, "workspaceName": "Room B",
			"startTime": "2024-06-10 10:00:00", "endTime": "2024-06-10 11:00:00",
			"status": "ACTIVE"
		}`))
	})

	start, end := window(t)
	created, err := svc.Create(context.Background(), 2, start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, "Room B", created.WorkspaceName)
	assert.Equal(t, domain.ReservationActive, created.Status)
	assert.True(t, created.StartTime.Equal(start))
}

func TestService_Create_InvalidInput(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	start, end := window(t)

	_, err := svc.Create(context.Background(), 0, start, end)
	assert.ErrorIs(t, err, timeutil.ErrInvalidInput)

	_, err = svc.Create(context.Background(), 2, end, start)
	assert.ErrorIs(t, err, timeutil.ErrInvalidInput)

	_, err = svc.Create(context.Background(), 2, time.Time{}, end)
	assert.ErrorIs(t, err, timeutil.ErrInvalidInput)
}

func TestService_Create_Conflict(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code": "RESERVATION_CONFLICT", "message": "workspace already reserved for this window"}`))
	})

	start, end := window(t)
	_, err := svc.Create(context.Background(), 2, start, end)
	apiErr, ok := api.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "RESERVATION_CONFLICT", apiErr.Code)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestService_Get_Missing(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reservations/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	out, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestService_ListUserActive(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reservations/user/active", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 5, "userId": 7, "workspaceId": 2, "startTime": "2024-06-10 10:00:00",
			 "endTime": "2024-06-10 11:00:00", "status": "ACTIVE"}
		]`))
	})

	out, err := svc.ListUserActive(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(5), out[0].ID)
}

func TestService_UpdateTime(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/reservations/5/time", r.URL.Path)
		assert.Equal(t, "2024-06-10 14:00:00", r.URL.Query().Get("newStartTime"))
		assert.Equal(t, "2024-06-10 15:00:00", r.URL.Query().Get("newEndTime"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 5, "userId": 7, "workspaceId": 2, "startTime": "2024-06-10 14:00:00",
			"endTime": "2024-06-10 15:00:00", "status": "ACTIVE"
		}`))
	})

	newStart, err := timeutil.ParseWire("2024-06-10 14:00:00")
	require.NoError(t, err)
	out, err := svc.UpdateTime(context.Background(), 5, newStart, newStart.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, out.StartTime.Equal(newStart))
}

func TestService_UpdateTime_Missing(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	start, end := window(t)
	out, err := svc.UpdateTime(context.Background(), 42, start, end)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestService_Cancel(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/reservations/5", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	ok, err := svc.Cancel(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_Cancel_Missing(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ok, err := svc.Cancel(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ListRange(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reservations/range", r.URL.Path)
		assert.Equal(t, "2024-06-10 10:00:00", r.URL.Query().Get("startTime"))
		assert.Equal(t, "2024-06-10 11:00:00", r.URL.Query().Get("endTime"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	start, end := window(t)
	out, err := svc.ListRange(context.Background(), start, end)
	require.NoError(t, err)
	assert.Empty(t, out)
}
