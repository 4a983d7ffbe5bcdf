package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTimeEntryRejectsUnknownActivity(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/time-tracking",
		`{"activity_type":"gaming","start_time":"2025-06-01T09:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTimeEntryRequiresStartTime(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/time-tracking", `{"activity_type":"study"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTimeEntryComputesDuration(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/time-tracking",
		`{"activity_type":"study","start_time":"2025-06-01T09:00:00Z","end_time":"2025-06-01T10:30:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	entry := decodeEnvelope(t, rec)["time_entry"].(map[string]any)
	assert.EqualValues(t, 90, entry["duration_minutes"])
}

func TestCreateTimeEntryOpenEndedHasZeroDuration(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/time-tracking",
		`{"activity_type":"work","start_time":"2025-06-01T09:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	entry := decodeEnvelope(t, rec)["time_entry"].(map[string]any)
	assert.EqualValues(t, 0, entry["duration_minutes"])
	assert.Nil(t, entry["end_time"])
}

func TestUpdateTimeEntryRecomputesDuration(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/time-tracking",
		`{"activity_type":"study","start_time":"2025-06-01T09:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/time-tracking/1",
		`{"end_time":"2025-06-01T09:45:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	entry := decodeEnvelope(t, rec)["time_entry"].(map[string]any)
	assert.EqualValues(t, 45, entry["duration_minutes"])
}

func TestUpdateTimeEntryNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/time-tracking/9",
		`{"description":"late edit"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTimeEntry(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/time-tracking",
		`{"activity_type":"break","start_time":"2025-06-01T12:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/time-tracking/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/time-tracking/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
