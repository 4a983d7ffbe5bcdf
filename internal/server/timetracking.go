package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/sriramramnath/EducationOS/internal/auth"
	"github.com/sriramramnath/EducationOS/internal/logging"
	"github.com/sriramramnath/EducationOS/internal/store"
)

type timeEntryResponse struct {
	ID              int64      `json:"id"`
	ActivityType    string     `json:"activity_type"`
	Description     string     `json:"description"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
}

func timeEntryToResponse(e *store.TimeEntry) timeEntryResponse {
	return timeEntryResponse{
		ID:              e.ID,
		ActivityType:    e.ActivityType,
		Description:     e.Description,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DurationMinutes: e.DurationMinutes,
		CreatedAt:       e.CreatedAt,
	}
}

func validActivityType(t string) bool {
	switch t {
	case store.ActivityStudy, store.ActivityWork, store.ActivityExercise,
		store.ActivityBreak, store.ActivityOther:
		return true
	}
	return false
}

func (s *Server) getTimeEntries(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	entries, err := s.store.TimeEntries.ListByUser(r.Context(), user.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list time entries", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to list time entries")
		return
	}

	out := make([]timeEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, timeEntryToResponse(&entries[i]))
	}
	respondSuccess(w, envelope{"time_entries": out})
}

type timeEntryRequest struct {
	ActivityType *string `json:"activity_type"`
	Description  *string `json:"description"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
}

func parseTimestamp(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (s *Server) createTimeEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req timeEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ActivityType == nil || !validActivityType(*req.ActivityType) {
		respondError(w, http.StatusBadRequest, "invalid activity_type")
		return
	}
	if req.StartTime == nil {
		respondError(w, http.StatusBadRequest, "start_time is required")
		return
	}
	start, ok := parseTimestamp(*req.StartTime)
	if !ok || start == nil {
		respondError(w, http.StatusBadRequest, "invalid start_time")
		return
	}

	e := &store.TimeEntry{
		UserID:       user.ID,
		ActivityType: *req.ActivityType,
		StartTime:    *start,
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.EndTime != nil {
		end, ok := parseTimestamp(*req.EndTime)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid end_time")
			return
		}
		e.EndTime = end
	}

	if err := s.store.TimeEntries.Create(r.Context(), e); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to create time entry", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to create time entry")
		return
	}

	respondSuccess(w, envelope{"time_entry": timeEntryToResponse(e)})
}

func (s *Server) updateTimeEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req timeEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := s.store.TimeEntries.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "time entry not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to load time entry", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to update time entry")
		return
	}

	if req.ActivityType != nil {
		if !validActivityType(*req.ActivityType) {
			respondError(w, http.StatusBadRequest, "invalid activity_type")
			return
		}
		e.ActivityType = *req.ActivityType
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.StartTime != nil {
		start, ok := parseTimestamp(*req.StartTime)
		if !ok || start == nil {
			respondError(w, http.StatusBadRequest, "invalid start_time")
			return
		}
		e.StartTime = *start
	}
	if req.EndTime != nil {
		end, ok := parseTimestamp(*req.EndTime)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid end_time")
			return
		}
		e.EndTime = end
	}

	if err := s.store.TimeEntries.Update(r.Context(), e); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to update time entry", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to update time entry")
		return
	}

	respondSuccess(w, envelope{"time_entry": timeEntryToResponse(e)})
}

func (s *Server) deleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.TimeEntries.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "time entry not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to delete time entry", logging.Err(err))
		respondError(w, http.StatusInternalServerError, "failed to delete time entry")
		return
	}

	respondSuccess(w, envelope{})
}
