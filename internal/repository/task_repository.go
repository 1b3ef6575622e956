package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tickease/tickease/internal/domain"
)

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListAll(ctx context.Context) ([]domain.Task, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	ExistsBySourceTicket(ctx context.Context, ticketID string) (bool, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, external_key, title, description, status, priority, due_date,
               project_id, assigned_to, user_id, created_by, source_ticket_id, comments,
               created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (external_key, title, description, status, priority, due_date,
                           project_id, assigned_to, user_id, created_by, source_ticket_id, comments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	comments := task.Comments
	if comments == nil {
		comments = []domain.TaskComment{}
	}
	return r.pool.QueryRow(ctx, query,
		task.ExternalKey,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.ProjectID,
		task.AssignedTo,
		task.UserID,
		task.CreatedBy,
		task.SourceTicketID,
		comments,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`
	return scanTaskRow(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assigned_to=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, status=$3, priority=$4, due_date=$5,
            project_id=$6, assigned_to=$7, user_id=$8, comments=$9, updated_at=NOW()
        WHERE id=$10`
	comments := task.Comments
	if comments == nil {
		comments = []domain.TaskComment{}
	}
	cmd, err := r.pool.Exec(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.ProjectID,
		task.AssignedTo,
		task.UserID,
		comments,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	query := `UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + taskColumns
	return scanTaskRow(r.pool.QueryRow(ctx, query, status, id))
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) ExistsBySourceTicket(ctx context.Context, ticketID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE source_ticket_id=$1)`, ticketID).Scan(&exists)
	return exists, err
}

func scanTaskRow(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.ExternalKey,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.ProjectID,
		&task.AssignedTo,
		&task.UserID,
		&task.CreatedBy,
		&task.SourceTicketID,
		&task.Comments,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.ExternalKey,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.DueDate,
			&task.ProjectID,
			&task.AssignedTo,
			&task.UserID,
			&task.CreatedBy,
			&task.SourceTicketID,
			&task.Comments,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
