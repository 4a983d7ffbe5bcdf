package tasks

import (
	"context"
	"log/slog"

	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/sriramramnath/EducationOS/internal/google"
	"github.com/sriramramnath/EducationOS/internal/logging"
)

// DefaultTaskList is the provider alias for the user's default task
// list.
const DefaultTaskList = "@default"

// defaultMaxResults bounds a task listing when the caller does not.
const defaultMaxResults = 100

// Client wraps the Google Tasks service for a single user. A client
// built without a credential is disconnected: reads return empty
// results, writes return nil or false.
type Client struct {
	svc    *tasks.Service
	logger *slog.Logger
}

// New creates a Tasks client from a resolved credential. A nil
// credential yields a disconnected client, as does a service
// construction failure.
func New(ctx context.Context, cred *google.Credential, logger *slog.Logger) *Client {
	c := &Client{
		logger: logging.WithService(logger, "tasks"),
	}
	if cred == nil {
		return c
	}

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(cred.HTTPClient(ctx)))
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to build Tasks service", logging.Err(err))
		return c
	}
	c.svc = svc
	return c
}

// Connected reports whether the client is backed by a live Tasks
// service.
func (c *Client) Connected() bool {
	return c.svc != nil
}

// ListTaskLists returns the user's task lists as the provider reports
// them. Failures yield an empty slice.
func (c *Client) ListTaskLists(ctx context.Context) []*tasks.TaskList {
	if !c.Connected() {
		return []*tasks.TaskList{}
	}

	res, err := c.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to list task lists",
			logging.Operation("list_task_lists"), logging.Err(err))
		return []*tasks.TaskList{}
	}
	return res.Items
}

// ListTasks returns the normalized tasks of a task list, completed and
// hidden tasks included. An empty taskListID means the default list.
func (c *Client) ListTasks(ctx context.Context, taskListID string) []Task {
	if !c.Connected() {
		return []Task{}
	}
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	res, err := c.svc.Tasks.List(taskListID).
		MaxResults(defaultMaxResults).
		ShowCompleted(true).
		ShowHidden(true).
		Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to list tasks",
			logging.Operation("list_tasks"), logging.Err(err))
		return []Task{}
	}

	out := make([]Task, 0, len(res.Items))
	for _, t := range res.Items {
		out = append(out, normalizeTask(t))
	}
	return out
}

// CreateTask inserts a new task into a task list and returns its
// normalized form, or nil on failure. The in-progress status is stored
// as a marker in the task notes; the provider status itself is always
// "needsAction" on creation.
func (c *Client) CreateTask(ctx context.Context, taskListID string, in TaskInput) *Task {
	if !c.Connected() {
		return nil
	}
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	body := &tasks.Task{
		Title:  in.Title,
		Status: "needsAction",
		Notes:  encodeNotes(in.Status, in.Description),
		Due:    in.Due,
	}

	res, err := c.svc.Tasks.Insert(taskListID, body).Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to create task",
			logging.Operation("create_task"), logging.Err(err))
		return nil
	}

	c.logger.InfoContext(ctx, "created task", slog.String("task_id", res.Id))
	task := normalizeTask(res)
	return &task
}

// UpdateTask applies a partial update to a task and returns its
// normalized form, or nil on failure. The current task is fetched first
// so omitted fields keep their stored values; the status marker in the
// notes is rebuilt from the effective description and status.
func (c *Client) UpdateTask(ctx context.Context, taskListID, taskID string, upd TaskUpdate) *Task {
	if !c.Connected() {
		return nil
	}
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	current, err := c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to fetch task for update",
			logging.Operation("update_task"),
			slog.String("task_id", taskID), logging.Err(err))
		return nil
	}

	if upd.Title != nil && *upd.Title != "" {
		current.Title = *upd.Title
	}

	if upd.Description != nil || upd.Status != nil {
		_, stored := decodeNotes(current.Status, current.Notes)

		description := stored
		if upd.Description != nil {
			description = *upd.Description
		}

		status := StatusNotStarted
		if upd.Status != nil {
			status = *upd.Status
		}

		current.Notes = encodeNotes(status, description)
		if upd.Status != nil {
			current.Status = googleStatus(status)
			if current.Status == "needsAction" {
				current.Completed = nil
			}
		}
	}

	res, err := c.svc.Tasks.Update(taskListID, taskID, current).Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to update task",
			logging.Operation("update_task"),
			slog.String("task_id", taskID), logging.Err(err))
		return nil
	}

	c.logger.InfoContext(ctx, "updated task", slog.String("task_id", taskID))
	task := normalizeTask(res)
	return &task
}

// DeleteTask removes a task from a task list and reports whether the
// deletion succeeded.
func (c *Client) DeleteTask(ctx context.Context, taskListID, taskID string) bool {
	if !c.Connected() {
		return false
	}
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	if err := c.svc.Tasks.Delete(taskListID, taskID).Context(ctx).Do(); err != nil {
		c.logger.ErrorContext(ctx, "failed to delete task",
			logging.Operation("delete_task"),
			slog.String("task_id", taskID), logging.Err(err))
		return false
	}

	c.logger.InfoContext(ctx, "deleted task", slog.String("task_id", taskID))
	return true
}
