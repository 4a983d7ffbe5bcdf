package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoalRequiresTitle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/goals", `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGoalDerivesProgress(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/goals",
		`{"title":"Read books","target_value":10,"current_value":4,"unit":"books"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec)
	goal := body["goal"].(map[string]any)
	assert.Equal(t, "Read books", goal["title"])
	assert.Equal(t, "active", goal["status"])
	assert.InDelta(t, 40.0, goal["progress_percentage"], 0.01)
	assert.Equal(t, false, goal["is_overdue"])
}

func TestCreateGoalZeroTargetHasZeroProgress(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/goals", `{"title":"Someday","current_value":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	goal := decodeEnvelope(t, rec)["goal"].(map[string]any)
	assert.InDelta(t, 0.0, goal["progress_percentage"], 0.01)
}

func TestCreateGoalRejectsBadDeadline(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/goals", `{"title":"x","deadline":"soon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateGoalNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/goals/99", `{"title":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateGoalBadIDIsClientError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/goals/abc", `{"title":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompletingGoalUnlocksAchievement(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/goals", `{"title":"Finish course","target_value":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/goals/1", `{"status":"completed","current_value":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	goal := decodeEnvelope(t, rec)["goal"].(map[string]any)
	assert.Equal(t, "completed", goal["status"])
	assert.NotNil(t, goal["completed_at"])

	require.Len(t, env.achievements.created, 1)
	assert.Equal(t, "Goal completed: Finish course", env.achievements.created[0].Title)
	require.NotNil(t, env.achievements.created[0].GoalID)
	assert.Equal(t, int64(1), *env.achievements.created[0].GoalID)

	// Completing an already completed goal does not unlock again.
	rec = env.do(t, http.MethodPut, "/api/goals/1", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.achievements.created, 1)
}

func TestDeleteGoal(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/goals", `{"title":"Temp"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/goals/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeEnvelope(t, rec)["success"])

	rec = env.do(t, http.MethodDelete, "/api/goals/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAchievements(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/achievements", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, body["achievements"])
}
