package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sriramramnath/EducationOS/internal/auth"
	"github.com/sriramramnath/EducationOS/internal/logging"
	"github.com/sriramramnath/EducationOS/internal/store"
)

// pathID parses the {id} route parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

type goalResponse struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	TargetValue        float64    `json:"target_value"`
	CurrentValue       float64    `json:"current_value"`
	Unit               string     `json:"unit"`
	Status             string     `json:"status"`
	Category           string     `json:"category"`
	Deadline           *time.Time `json:"deadline"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	ProgressPercentage float64    `json:"progress_percentage"`
	IsOverdue          bool       `json:"is_overdue"`
}

func (s *Server) goalResponse(g *store.Goal) goalResponse {
	return goalResponse{
		ID:                 g.ID,
		Title:              g.Title,
		Description:        g.Description,
		TargetValue:        g.TargetValue,
		CurrentValue:       g.CurrentValue,
		Unit:               g.Unit,
		Status:             g.Status,
		Category:           g.Category,
		Deadline:           g.Deadline,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
		CompletedAt:        g.CompletedAt,
		ProgressPercentage: g.ProgressPercentage(),
		IsOverdue:          g.IsOverdue(s.now()),
	}
}

func validGoalStatus(status string) bool {
	switch status {
	case store.GoalStatusActive, store.GoalStatusCompleted,
		store.GoalStatusPaused, store.GoalStatusCancelled:
		return true
	}
	return false
}

func (s *Server) getGoals(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	goals, err := s.store.Goals.ListByUser(r.Context(), user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list goals", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, s.goalResponse(&goals[i]))
	}
	respondSuccess(w, envelope{"goals": out})
}

type goalRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	TargetValue  *float64 `json:"target_value"`
	CurrentValue *float64 `json:"current_value"`
	Unit         *string  `json:"unit"`
	Status       *string  `json:"status"`
	Category     *string  `json:"category"`
	Deadline     *string  `json:"deadline"`
}

// parseDeadline accepts a full timestamp or a bare date. An empty
// string clears the deadline.
func parseDeadline(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return &t, true
	}
	return nil, false
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == nil || *req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	g := &store.Goal{
		UserID: user.ID,
		Title:  *req.Title,
		Status: store.GoalStatusActive,
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.TargetValue != nil {
		g.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		g.CurrentValue = *req.CurrentValue
	}
	if req.Unit != nil {
		g.Unit = *req.Unit
	}
	if req.Category != nil {
		g.Category = *req.Category
	}
	if req.Status != nil {
		if !validGoalStatus(*req.Status) {
			respondError(w, http.StatusBadRequest, "invalid status")
			return
		}
		g.Status = *req.Status
	}
	if req.Deadline != nil {
		deadline, ok := parseDeadline(*req.Deadline)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid deadline")
			return
		}
		g.Deadline = deadline
	}

	if err := s.store.Goals.Create(r.Context(), g); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to create goal", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}

	respondSuccess(w, envelope{"goal": s.goalResponse(g)})
}

func (s *Server) updateGoal(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := s.store.Goals.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to load goal", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to update goal")
		return
	}

	if req.Title != nil && *req.Title != "" {
		g.Title = *req.Title
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.TargetValue != nil {
		g.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		g.CurrentValue = *req.CurrentValue
	}
	if req.Unit != nil {
		g.Unit = *req.Unit
	}
	if req.Category != nil {
		g.Category = *req.Category
	}
	if req.Deadline != nil {
		deadline, ok := parseDeadline(*req.Deadline)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid deadline")
			return
		}
		g.Deadline = deadline
	}

	completedNow := false
	if req.Status != nil {
		if !validGoalStatus(*req.Status) {
			respondError(w, http.StatusBadRequest, "invalid status")
			return
		}
		if *req.Status == store.GoalStatusCompleted && g.Status != store.GoalStatusCompleted {
			now := s.now()
			g.CompletedAt = &now
			completedNow = true
		}
		g.Status = *req.Status
	}

	if err := s.store.Goals.Update(r.Context(), g); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to update goal", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to update goal")
		return
	}

	if completedNow {
		s.unlockGoalAchievement(r, g)
	}

	respondSuccess(w, envelope{"goal": s.goalResponse(g)})
}

// unlockGoalAchievement records an achievement when a goal reaches
// completed. Failures only log; the goal update already succeeded.
func (s *Server) unlockGoalAchievement(r *http.Request, g *store.Goal) {
	a := &store.Achievement{
		UserID:      g.UserID,
		GoalID:      &g.ID,
		Title:       "Goal completed: " + g.Title,
		Description: g.Description,
		Icon:        "trophy",
		UnlockedAt:  s.now(),
	}
	if err := s.store.Achievements.Create(r.Context(), a); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to record achievement", logging.Err(err))
	}
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.Goals.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "goal not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to delete goal", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to delete goal")
		return
	}

	respondSuccess(w, envelope{})
}

type achievementResponse struct {
	ID          int64     `json:"id"`
	GoalID      *int64    `json:"goal_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

func (s *Server) getAchievements(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	achievements, err := s.store.Achievements.ListByUser(r.Context(), user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list achievements", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to list achievements")
		return
	}

	out := make([]achievementResponse, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, achievementResponse{
			ID:          a.ID,
			GoalID:      a.GoalID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			UnlockedAt:  a.UnlockedAt,
		})
	}
	respondSuccess(w, envelope{"achievements": out})
}
