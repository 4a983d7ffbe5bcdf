package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/sriramramnath/EducationOS/internal/auth"
	"github.com/sriramramnath/EducationOS/internal/habits"
	"github.com/sriramramnath/EducationOS/internal/logging"
	"github.com/sriramramnath/EducationOS/internal/store"
)

type habitResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Frequency     string    `json:"frequency"`
	TargetCount   int       `json:"target_count"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon"`
	IsActive      bool      `json:"is_active"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type completionResponse struct {
	ID        int64  `json:"id"`
	HabitID   int64  `json:"habit_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

func completionToResponse(c *store.HabitCompletion) completionResponse {
	return completionResponse{
		ID:        c.ID,
		HabitID:   c.HabitID,
		Date:      c.Date.Format("2006-01-02"),
		Completed: c.Completed,
		Notes:     c.Notes,
	}
}

func validFrequency(f string) bool {
	switch f {
	case store.FrequencyDaily, store.FrequencyWeekly, store.FrequencyCustom:
		return true
	}
	return false
}

// habitToResponse attaches the streaks derived from the habit's
// completion history.
func (s *Server) habitToResponse(r *http.Request, h *store.Habit) habitResponse {
	resp := habitResponse{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		Frequency:   h.Frequency,
		TargetCount: h.TargetCount,
		Color:       h.Color,
		Icon:        h.Icon,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}

	completions, err := s.store.Habits.ListCompletions(r.Context(), h.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to load completions", logging.Err(err))
		return resp
	}
	resp.CurrentStreak = habits.CurrentStreak(s.now(), completions)
	resp.LongestStreak = habits.LongestStreak(completions)
	return resp
}

func (s *Server) getHabits(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	list, err := s.store.Habits.ListByUser(r.Context(), user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list habits", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to list habits")
		return
	}

	out := make([]habitResponse, 0, len(list))
	for i := range list {
		out = append(out, s.habitToResponse(r, &list[i]))
	}
	respondSuccess(w, envelope{"habits": out})
}

type habitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	TargetCount *int    `json:"target_count"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"is_active"`
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req habitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	h := &store.Habit{
		UserID:      user.ID,
		Name:        *req.Name,
		Frequency:   store.FrequencyDaily,
		TargetCount: 1,
		Color:       "blue",
		Icon:        "star",
		IsActive:    true,
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.Frequency != nil {
		if !validFrequency(*req.Frequency) {
			respondError(w, http.StatusBadRequest, "invalid frequency")
			return
		}
		h.Frequency = *req.Frequency
	}
	if req.TargetCount != nil && *req.TargetCount > 0 {
		h.TargetCount = *req.TargetCount
	}
	if req.Color != nil && *req.Color != "" {
		h.Color = *req.Color
	}
	if req.Icon != nil && *req.Icon != "" {
		h.Icon = *req.Icon
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}

	if err := s.store.Habits.Create(r.Context(), h); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to create habit", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to create habit")
		return
	}

	respondSuccess(w, envelope{"habit": s.habitToResponse(r, h)})
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req habitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h, err := s.store.Habits.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "habit not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to load habit", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to update habit")
		return
	}

	if req.Name != nil && *req.Name != "" {
		h.Name = *req.Name
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.Frequency != nil {
		if !validFrequency(*req.Frequency) {
			respondError(w, http.StatusBadRequest, "invalid frequency")
			return
		}
		h.Frequency = *req.Frequency
	}
	if req.TargetCount != nil && *req.TargetCount > 0 {
		h.TargetCount = *req.TargetCount
	}
	if req.Color != nil && *req.Color != "" {
		h.Color = *req.Color
	}
	if req.Icon != nil && *req.Icon != "" {
		h.Icon = *req.Icon
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}

	if err := s.store.Habits.Update(r.Context(), h); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to update habit", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to update habit")
		return
	}

	respondSuccess(w, envelope{"habit": s.habitToResponse(r, h)})
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.Habits.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "habit not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to delete habit", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to delete habit")
		return
	}

	respondSuccess(w, envelope{})
}

// ownedHabit loads a habit scoped to the authenticated user, answering
// 404 for foreign or missing habits.
func (s *Server) ownedHabit(w http.ResponseWriter, r *http.Request) (*store.Habit, bool) {
	user, _ := auth.UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}

	h, err := s.store.Habits.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "habit not found")
			return nil, false
		}
		s.logger.ErrorContext(r.Context(), "failed to load habit", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to load habit")
		return nil, false
	}
	return h, true
}

func (s *Server) getHabitCompletions(w http.ResponseWriter, r *http.Request) {
	h, ok := s.ownedHabit(w, r)
	if !ok {
		return
	}

	completions, err := s.store.Habits.ListCompletions(r.Context(), h.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list completions", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}

	out := make([]completionResponse, 0, len(completions))
	for i := range completions {
		out = append(out, completionToResponse(&completions[i]))
	}
	respondSuccess(w, envelope{"completions": out})
}

func (s *Server) toggleHabitCompletion(w http.ResponseWriter, r *http.Request) {
	h, ok := s.ownedHabit(w, r)
	if !ok {
		return
	}

	completion, err := s.store.Habits.ToggleCompletion(r.Context(), h.ID, s.now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to toggle completion", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to toggle completion")
		return
	}

	respondSuccess(w, envelope{
		"completion":     completionToResponse(completion),
		"current_streak": habits.CurrentStreak(s.now(), s.completionsOrNone(r, h.ID)),
	})
}

// completionsOrNone fetches completions for streak display, degrading
// to none on error since the toggle itself already succeeded.
func (s *Server) completionsOrNone(r *http.Request, habitID int64) []store.HabitCompletion {
	completions, err := s.store.Habits.ListCompletions(r.Context(), habitID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to load completions", logging.Err(err))
		return nil
	}
	return completions
}
