package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/events"
	"github.com/tickease/tickease/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) seed(ticket domain.Ticket) *domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		r.seq++
		ticket.ID = "ticket-" + strconv.Itoa(r.seq)
	}
	stored := ticket
	r.tickets[ticket.ID] = &stored
	return &stored
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = "ticket-" + strconv.Itoa(r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) ListByCreator(_ context.Context, userID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, t := range r.tickets {
		if t.CreatedBy == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, t := range r.tickets {
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) UpdateStatusIf(_ context.Context, id string, expected, next domain.Status) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if stored.Status != expected {
		return nil, repository.ErrStaleStatus
	}
	stored.Status = next
	stored.UpdatedAt = time.Now()
	copied := *stored
	return &copied, nil
}

type fakeTaskRepo struct {
	mu      sync.Mutex
	seq     int
	tasks   map[string]*domain.Task
	deleted []string
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*domain.Task{}}
}

func (r *fakeTaskRepo) seed(task domain.Task) *domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		r.seq++
		task.ID = "task-" + strconv.Itoa(r.seq)
	}
	stored := task
	r.tasks[task.ID] = &stored
	return &stored
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	task.ID = "task-" + strconv.Itoa(r.seq)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTaskRepo) ListAll(_ context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Task
	for _, t := range r.tasks {
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeTaskRepo) ListByOwner(_ context.Context, userID string) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *fakeTaskRepo) ListByAssignee(_ context.Context, userID string) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Task
	for _, t := range r.tasks {
		if t.AssignedTo == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *task
	stored.UpdatedAt = time.Now()
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	copied := *stored
	return &copied, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeTaskRepo) ExistsBySourceTicket(_ context.Context, ticketID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.SourceTicketID != nil && *t.SourceTicketID == ticketID {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) seed(user domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		r.seq++
		user.ID = "user-" + strconv.Itoa(r.seq)
	}
	stored := user
	r.users[user.ID] = &stored
	return &stored
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = "user-" + strconv.Itoa(r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, u := range r.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	seq      int
	projects map[string]*domain.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*domain.Project{}}
}

func (r *fakeProjectRepo) seed(project domain.Project) *domain.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == "" {
		r.seq++
		project.ID = "project-" + strconv.Itoa(r.seq)
	}
	stored := project
	r.projects[project.ID] = &stored
	return &stored
}

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	project.ID = "project-" + strconv.Itoa(r.seq)
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	stored := *project
	r.projects[project.ID] = &stored
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeProjectRepo) List(_ context.Context) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Project
	for _, p := range r.projects {
		result = append(result, *p)
	}
	return result, nil
}

// capturingDispatcher records published events for assertions.
type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			result = append(result, e)
		}
	}
	return result
}
