// Package store records relayed submissions in PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"formrelay/internal/formjson"
)

// Submission statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var (
	// ErrNotFound is returned when no submission has the requested id.
	ErrNotFound = errors.New("store: submission not found")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("store: invalid status transition")
)

var validTransitions = map[string][]string{
	StatusPending: {StatusCompleted, StatusFailed},
}

// CanTransition reports whether a submission may move from one status to
// another.
func CanTransition(from, to string) bool {
	return slices.Contains(validTransitions[from], to)
}

// Submission is one relayed form and its outcome.
type Submission struct {
	ID        string                  `json:"id"`
	Page      string                  `json:"page"`
	Payload   formjson.SerializedForm `json:"payload"`
	Status    string                  `json:"status"`
	Response  json.RawMessage         `json:"response,omitempty"`
	Error     *string                 `json:"error,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Filter selects and orders submissions for List.
type Filter struct {
	Page      string
	Status    string
	Sort      string
	Direction string
	PageNum   int
	Limit     int
}

// Normalize clamps paging to sane values and defaults the ordering.
func (f Filter) Normalize() Filter {
	if f.PageNum < 1 {
		f.PageNum = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	f.Direction = strings.ToUpper(f.Direction)
	if f.Direction != "ASC" && f.Direction != "DESC" {
		f.Direction = "DESC"
	}
	switch f.Sort {
	case "page", "status", "created_at", "updated_at":
	default:
		f.Sort = "created_at"
	}
	return f
}

// Store persists submissions in the submissions table.
type Store struct {
	db *pgxpool.Pool
}

// New returns a Store backed by db.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Create records a pending submission of form for page and returns its id.
func (s *Store) Create(ctx context.Context, page string, form formjson.SerializedForm) (string, error) {
	payload, err := json.Marshal(form)
	if err != nil {
		return "", fmt.Errorf("store: encode payload: %w", err)
	}

	id := uuid.New().String()
	now := time.Now()

	_, err = s.db.Exec(ctx, `
		INSERT INTO submissions (id, page, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, page, payload, StatusPending, now, now)
	if err != nil {
		return "", fmt.Errorf("store: insert submission: %w", err)
	}
	return id, nil
}

// Complete moves a pending submission to status, storing the remote response
// or the failure text.
func (s *Store) Complete(ctx context.Context, id, status string, response any, errText string) error {
	var body []byte
	if response != nil {
		var err error
		if body, err = json.Marshal(response); err != nil {
			return fmt.Errorf("store: encode response: %w", err)
		}
	}
	var errCol *string
	if errText != "" {
		errCol = &errText
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, "SELECT status FROM submissions WHERE id = $1 FOR UPDATE", id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: load status: %w", err)
	}
	if !CanTransition(current, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE submissions
		SET status = $1, response = $2, error = $3, updated_at = NOW()
		WHERE id = $4
	`, status, body, errCol, id)
	if err != nil {
		return fmt.Errorf("store: update submission: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id::text, page, payload, status, response, error, created_at, updated_at FROM submissions`

// Get returns the submission with the given id.
func (s *Store) Get(ctx context.Context, id string) (Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Submission{}, ErrNotFound
	}
	row := s.db.QueryRow(ctx, selectColumns+" WHERE id = $1", id)
	sub, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	if err != nil {
		return Submission{}, fmt.Errorf("store: get submission: %w", err)
	}
	return sub, nil
}

// List returns one page of submissions matching f.
func (s *Store) List(ctx context.Context, f Filter) ([]Submission, error) {
	f = f.Normalize()

	filters := []string{}
	args := []interface{}{}
	i := 1
	if f.Page != "" {
		filters = append(filters, "page = $"+strconv.Itoa(i))
		args = append(args, f.Page)
		i++
	}
	if f.Status != "" {
		filters = append(filters, "status = $"+strconv.Itoa(i))
		args = append(args, f.Status)
		i++
	}

	where := ""
	if len(filters) > 0 {
		where = "WHERE " + strings.Join(filters, " AND ")
	}

	query := selectColumns + `
		` + where + `
		ORDER BY ` + f.Sort + " " + f.Direction + `
		LIMIT $` + strconv.Itoa(i) + ` OFFSET $` + strconv.Itoa(i+1)
	args = append(args, f.Limit, (f.PageNum-1)*f.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query submissions: %w", err)
	}
	defer rows.Close()

	results := []Submission{}
	for rows.Next() {
		sub, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: read submissions: %w", err)
	}
	return results, nil
}

func scan(row pgx.Row) (Submission, error) {
	var (
		sub      Submission
		payload  []byte
		response []byte
	)
	err := row.Scan(&sub.ID, &sub.Page, &payload, &sub.Status, &response, &sub.Error, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return Submission{}, err
	}
	if err := json.Unmarshal(payload, &sub.Payload); err != nil {
		return Submission{}, fmt.Errorf("store: decode payload of %s: %w", sub.ID, err)
	}
	if len(response) > 0 {
		sub.Response = json.RawMessage(response)
	}
	return sub, nil
}
