package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sriramramnath/EducationOS/internal/auth"
	"github.com/sriramramnath/EducationOS/internal/calendar"
	"github.com/sriramramnath/EducationOS/internal/gmail"
	"github.com/sriramramnath/EducationOS/internal/google"
	"github.com/sriramramnath/EducationOS/internal/instrumentation"
	"github.com/sriramramnath/EducationOS/internal/tasks"
)

const (
	defaultEmailResults    = 10
	defaultCalendarResults = 10
	defaultDaysAhead       = 7
)

// credential resolves the Google credential of the authenticated user.
// Resolution failures surface as a nil credential for read endpoints;
// mutation handlers check the error themselves.
func (s *Server) credential(r *http.Request) (*google.Credential, error) {
	user, _ := auth.UserFromContext(r.Context())
	return s.resolver.Resolve(r.Context(), user)
}

func (s *Server) recordGoogleOp(r *http.Request, service, operation string, start time.Time) {
	s.metrics.RecordGoogleAPIOperation(r.Context(), service, operation,
		instrumentation.StatusSuccess, time.Since(start))
}

// queryInt reads an integer query parameter, falling back to def when
// absent. A non-integer value is a client error.
func queryInt(r *http.Request, name string, def int64) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *Server) getEmails(w http.ResponseWriter, r *http.Request) {
	maxResults, ok := queryInt(r, "max_results", defaultEmailResults)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid max_results")
		return
	}

	cred, _ := s.credential(r)
	client := gmail.New(r.Context(), cred, s.logger)

	start := time.Now()
	emails := client.ListRecent(r.Context(), maxResults)
	if client.Connected() {
		s.recordGoogleOp(r, instrumentation.ServiceGmail, "list_recent", start)
	}

	respondSuccess(w, envelope{"emails": emails})
}

func (s *Server) getEmailLabels(w http.ResponseWriter, r *http.Request) {
	cred, _ := s.credential(r)
	client := gmail.New(r.Context(), cred, s.logger)

	start := time.Now()
	labels := client.ListLabels(r.Context())
	if client.Connected() {
		s.recordGoogleOp(r, instrumentation.ServiceGmail, "list_labels", start)
	}

	respondSuccess(w, envelope{"labels": labels})
}

func (s *Server) getCalendarEvents(w http.ResponseWriter, r *http.Request) {
	maxResults, ok := queryInt(r, "max_results", defaultCalendarResults)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid max_results")
		return
	}
	daysAhead, ok := queryInt(r, "days_ahead", defaultDaysAhead)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid days_ahead")
		return
	}

	cred, _ := s.credential(r)
	client := calendar.New(r.Context(), cred, s.logger)

	start := time.Now()
	events := client.ListUpcoming(r.Context(), maxResults, int(daysAhead))
	if client.Connected() {
		s.recordGoogleOp(r, instrumentation.ServiceCalendar, "list_upcoming", start)
	}

	respondSuccess(w, envelope{"events": events})
}

func (s *Server) getCalendarEventsForDate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	cred, _ := s.credential(r)
	client := calendar.New(r.Context(), cred, s.logger)

	start := time.Now()
	events := client.ListForDate(r.Context(), date)
	if client.Connected() {
		s.recordGoogleOp(r, instrumentation.ServiceCalendar, "list_for_date", start)
	}

	respondSuccess(w, envelope{"events": events})
}

func (s *Server) getCalendars(w http.ResponseWriter, r *http.Request) {
	cred, _ := s.credential(r)
	client := calendar.New(r.Context(), cred, s.logger)

	start := time.Now()
	calendars := client.ListCalendars(r.Context())
	if client.Connected() {
		s.recordGoogleOp(r, instrumentation.ServiceCalendar, "list_calendars", start)
	}

	respondSuccess(w, envelope{"calendars": calendars})
}

func (s *Server) getTasks(w http.ResponseWriter, r *http.Request) {
	taskList := r.URL.Query().Get("task_list")

	cred, _ := s.credential(r)
	client := tasks.New(r.Context(), cred, s.logger)

	start := time.Now()
	items := client.ListTasks(r.Context(), taskList)
	if client.Connected() {
		s.recordGoogleOp(r, instrumentation.ServiceTasks, "list_tasks", start)
	}

	respondSuccess(w, envelope{"tasks": items})
}

func (s *Server) getTaskLists(w http.ResponseWriter, r *http.Request) {
	cred, _ := s.credential(r)
	client := tasks.New(r.Context(), cred, s.logger)

	start := time.Now()
	lists := client.ListTaskLists(r.Context())
	if client.Connected() {
		s.recordGoogleOp(r, instrumentation.ServiceTasks, "list_task_lists", start)
	}

	respondSuccess(w, envelope{"task_lists": lists})
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Due         string `json:"due"`
	TaskList    string `json:"task_list"`
}

func validTaskStatus(s string) bool {
	switch tasks.Status(s) {
	case tasks.StatusNotStarted, tasks.StatusInProgress, tasks.StatusDone:
		return true
	}
	return s == ""
}

// tasksClientForMutation builds a connected Tasks client or answers the
// reauth envelope.
func (s *Server) tasksClientForMutation(w http.ResponseWriter, r *http.Request) *tasks.Client {
	cred, err := s.credential(r)
	if err != nil {
		respondReauth(w, "google account not connected")
		return nil
	}
	client := tasks.New(r.Context(), cred, s.logger)
	if !client.Connected() {
		respondReauth(w, "google account not connected")
		return nil
	}
	return client
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validTaskStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	client := s.tasksClientForMutation(w, r)
	if client == nil {
		return
	}

	status := tasks.Status(req.Status)
	if req.Status == "" {
		status = tasks.StatusNotStarted
	}

	start := time.Now()
	task := client.CreateTask(r.Context(), req.TaskList, tasks.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Due:         req.Due,
	})
	if task == nil {
		respondError(w, http.StatusInternalServerError, "failed to create task")
		return
	}
	s.recordGoogleOp(r, instrumentation.ServiceTasks, "create_task", start)

	respondSuccess(w, envelope{"task": task})
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	TaskList    string  `json:"task_list"`
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	var req updateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status != nil && !validTaskStatus(*req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	client := s.tasksClientForMutation(w, r)
	if client == nil {
		return
	}

	upd := tasks.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := tasks.Status(*req.Status)
		upd.Status = &status
	}

	start := time.Now()
	task := client.UpdateTask(r.Context(), req.TaskList, taskID, upd)
	if task == nil {
		respondError(w, http.StatusInternalServerError, "failed to update task")
		return
	}
	s.recordGoogleOp(r, instrumentation.ServiceTasks, "update_task", start)

	respondSuccess(w, envelope{"task": task})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	taskList := r.URL.Query().Get("task_list")

	client := s.tasksClientForMutation(w, r)
	if client == nil {
		return
	}

	start := time.Now()
	if !client.DeleteTask(r.Context(), taskList, taskID) {
		respondError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}
	s.recordGoogleOp(r, instrumentation.ServiceTasks, "delete_task", start)

	respondSuccess(w, envelope{})
}
