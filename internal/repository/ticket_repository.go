package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tickease/tickease/internal/domain"
)

// ErrStaleStatus signals that a guarded status update lost against a
// concurrent writer: the row exists but its status no longer matches the
// expected pre-state.
var ErrStaleStatus = errors.New("ticket status changed concurrently")

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByCreator(ctx context.Context, userID string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Ticket, error)
	// UpdateStatusIf applies the status only when the current status still
	// equals expected. Returns ErrStaleStatus when the precondition fails.
	UpdateStatusIf(ctx context.Context, id string, expected, next domain.Status) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, title, description, status, priority, created_by, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, title, description, status, priority, created_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CreatedBy,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicketRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) ListByCreator(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE created_by=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Ticket, error) {
	query := `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + ticketColumns
	return scanTicketRow(r.pool.QueryRow(ctx, query, status, id))
}

func (r *ticketRepository) UpdateStatusIf(ctx context.Context, id string, expected, next domain.Status) (*domain.Ticket, error) {
	query := `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3 RETURNING ` + ticketColumns
	ticket, err := scanTicketRow(r.pool.QueryRow(ctx, query, next, id, expected))
	if err == nil {
		return ticket, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Zero rows either means the ticket is gone or another writer moved the
	// status first; distinguish the two.
	var exists bool
	if checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE id=$1)`, id).Scan(&exists); checkErr != nil {
		return nil, checkErr
	}
	if exists {
		return nil, ErrStaleStatus
	}
	return nil, pgx.ErrNoRows
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedBy,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ExternalKey,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.CreatedBy,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
