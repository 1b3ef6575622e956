package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/events"
)

type taskFixture struct {
	svc        *TaskService
	tasks      *fakeTaskRepo
	users      *fakeUserRepo
	projects   *fakeProjectRepo
	dispatcher *capturingDispatcher
}

func newTaskFixture() taskFixture {
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	dispatcher := &capturingDispatcher{}
	svc := NewTaskService(TaskDependencies{
		TaskRepo:    tasks,
		UserRepo:    users,
		ProjectRepo: projects,
		Dispatcher:  dispatcher,
	})
	return taskFixture{svc: svc, tasks: tasks, users: users, projects: projects, dispatcher: dispatcher}
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.Status) *domain.Status { return &s }

func priorityPtr(p domain.Priority) *domain.Priority { return &p }

func TestCreateTask(t *testing.T) {
	f := newTaskFixture()
	assignee := f.users.seed(domain.User{Role: domain.RoleEmployee})

	task, err := f.svc.Create(context.Background(), employeePrincipal("emp-1"), TaskCreateInput{
		Title:      "upgrade database",
		AssignedTo: assignee.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusToDo, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, assignee.ID, task.AssignedTo)
	assert.Equal(t, assignee.ID, task.UserID)
	assert.Equal(t, "emp-1", task.CreatedBy)
	assert.Nil(t, task.SourceTicketID)
	assert.True(t, strings.HasPrefix(task.ExternalKey, "TSK-"))

	created := f.dispatcher.published(events.EventTaskCreated)
	require.Len(t, created, 1)
}

func TestCreateTaskForbiddenForCustomer(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.Create(context.Background(), customerPrincipal("cust-1"), TaskCreateInput{
		Title:      "x",
		AssignedTo: "emp-1",
	})
	requireErrorCode(t, err, "FORBIDDEN")
}

func TestCreateTaskValidation(t *testing.T) {
	f := newTaskFixture()
	assignee := f.users.seed(domain.User{Role: domain.RoleEmployee})

	cases := []struct {
		name  string
		input TaskCreateInput
	}{
		{"missing title", TaskCreateInput{AssignedTo: assignee.ID}},
		{"missing assignee", TaskCreateInput{Title: "x"}},
		{"unknown assignee", TaskCreateInput{Title: "x", AssignedTo: "nobody"}},
		{"unknown project", TaskCreateInput{Title: "x", AssignedTo: assignee.ID, ProjectID: strPtr("missing")}},
		{"invalid priority", TaskCreateInput{Title: "x", AssignedTo: assignee.ID, Priority: domain.Priority("Critical")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), employeePrincipal("emp-1"), tc.input)
			requireErrorCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestListTasksByRole(t *testing.T) {
	f := newTaskFixture()
	f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1"})
	f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-2"})
	f.tasks.seed(domain.Task{UserID: "cust-2", AssignedTo: "emp-1"})

	all, err := f.svc.List(context.Background(), employeePrincipal("emp-1"))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := f.svc.List(context.Background(), customerPrincipal("cust-1"))
	require.NoError(t, err)
	assert.Len(t, own, 2)
}

func TestUpdateFieldsCustomerWhitelist(t *testing.T) {
	t.Run("owner updates status and comments", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1", Status: domain.StatusToDo})

		updated, err := f.svc.UpdateFields(context.Background(), customerPrincipal("cust-1"), task.ID, TaskUpdateInput{
			Fields: []string{"status", "comments"},
			Status: statusPtr(domain.StatusClosed),
			Comments: []domain.TaskComment{
				{Text: "resolved on our side", PostedBy: "cust-1", CreatedAt: time.Now()},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, updated.Status)
		assert.Len(t, updated.Comments, 1)
	})

	t.Run("one restricted field rejects the whole payload", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1", Title: "original", Status: domain.StatusToDo})

		_, err := f.svc.UpdateFields(context.Background(), customerPrincipal("cust-1"), task.ID, TaskUpdateInput{
			Fields: []string{"status", "title"},
			Status: statusPtr(domain.StatusClosed),
			Title:  strPtr("hacked"),
		})
		requireErrorCode(t, err, "FORBIDDEN")

		stored, getErr := f.tasks.GetByID(context.Background(), task.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "original", stored.Title)
		assert.Equal(t, domain.StatusToDo, stored.Status)
	})

	t.Run("non-owner customer is forbidden even for allowed fields", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1"})

		_, err := f.svc.UpdateFields(context.Background(), customerPrincipal("cust-2"), task.ID, TaskUpdateInput{
			Fields: []string{"status"},
			Status: statusPtr(domain.StatusClosed),
		})
		requireErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("employee updates any field", func(t *testing.T) {
		f := newTaskFixture()
		assignee := f.users.seed(domain.User{Role: domain.RoleEmployee})
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1", Title: "old"})

		updated, err := f.svc.UpdateFields(context.Background(), employeePrincipal("emp-2"), task.ID, TaskUpdateInput{
			Fields:     []string{"title", "priority", "assignedTo"},
			Title:      strPtr("new title"),
			Priority:   priorityPtr(domain.PriorityHigh),
			AssignedTo: &assignee.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "new title", updated.Title)
		assert.Equal(t, domain.PriorityHigh, updated.Priority)
		assert.Equal(t, assignee.ID, updated.AssignedTo)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1"})

		_, err := f.svc.UpdateFields(context.Background(), employeePrincipal("emp-1"), task.ID, TaskUpdateInput{
			Fields: []string{"owner"},
		})
		requireErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("converted-ticket state is not a task status", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1"})

		_, err := f.svc.UpdateFields(context.Background(), employeePrincipal("emp-1"), task.ID, TaskUpdateInput{
			Fields: []string{"status"},
			Status: statusPtr(domain.StatusConvertedToTask),
		})
		requireErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("missing task is not found", func(t *testing.T) {
		f := newTaskFixture()
		_, err := f.svc.UpdateFields(context.Background(), employeePrincipal("emp-1"), "missing", TaskUpdateInput{
			Fields: []string{"status"},
			Status: statusPtr(domain.StatusClosed),
		})
		requireErrorCode(t, err, "NOT_FOUND")
	})
}

func TestSetTaskStatus(t *testing.T) {
	t.Run("invalid value is rejected before lookup", func(t *testing.T) {
		f := newTaskFixture()
		_, err := f.svc.SetStatus(context.Background(), employeePrincipal("emp-1"), "missing", domain.StatusConvertedToTask)
		requireErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("owner moves task forward", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1", Status: domain.StatusToDo})

		updated, err := f.svc.SetStatus(context.Background(), customerPrincipal("cust-1"), task.ID, domain.StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)

		changed := f.dispatcher.published(events.EventTaskStatusChanged)
		require.Len(t, changed, 1)
	})

	t.Run("non-owner customer is forbidden", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1", Status: domain.StatusToDo})

		_, err := f.svc.SetStatus(context.Background(), customerPrincipal("cust-2"), task.ID, domain.StatusInProgress)
		requireErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("employee moves any task", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1", Status: domain.StatusToDo})

		updated, err := f.svc.SetStatus(context.Background(), employeePrincipal("emp-2"), task.ID, domain.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, updated.Status)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("employee deletes any task", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1", Title: "stale"})

		err := f.svc.Delete(context.Background(), employeePrincipal("emp-2"), task.ID)
		require.NoError(t, err)

		_, getErr := f.tasks.GetByID(context.Background(), task.ID)
		assert.ErrorIs(t, getErr, pgx.ErrNoRows)

		deleted := f.dispatcher.published(events.EventTaskDeleted)
		require.Len(t, deleted, 1)
	})

	t.Run("customer may not delete", func(t *testing.T) {
		f := newTaskFixture()
		task := f.tasks.seed(domain.Task{UserID: "cust-1", AssignedTo: "emp-1"})

		err := f.svc.Delete(context.Background(), customerPrincipal("cust-1"), task.ID)
		requireErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("missing task is not found", func(t *testing.T) {
		f := newTaskFixture()
		err := f.svc.Delete(context.Background(), employeePrincipal("emp-1"), "missing")
		requireErrorCode(t, err, "NOT_FOUND")
	})
}
