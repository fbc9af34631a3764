package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ListFilter narrows and pages a lead listing.
type ListFilter struct {
	Search    string
	Status    Status
	Source    Source
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// Repository is the persistence contract for leads.
//
// Assumed table (Postgres):
//
//	leads (id, first_name, last_name, phone UNIQUE, email, company, timezone,
//	       status, source, score, tags JSONB, notes, metadata JSONB,
//	       assigned_to_id, created_at, updated_at)
type Repository interface {
	Create(ctx context.Context, l Lead) error
	GetByID(ctx context.Context, id string) (Lead, error)
	Update(ctx context.Context, l Lead) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]Lead, int, error)

	// BulkInsert inserts leads, silently skipping phone-number duplicates.
	// Returns the number of rows actually inserted.
	BulkInsert(ctx context.Context, ls []Lead) (int, error)

	// BulkAssign sets assigned_to_id for the given lead ids.
	BulkAssign(ctx context.Context, leadIDs []string, assignedToID string) (int, error)
}

var ErrNotFound = errors.New("leads: not found")

// Sortable columns for List. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"firstName": "first_name",
	"lastName":  "last_name",
	"company":   "company",
	"status":    "status",
	"score":     "score",
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const leadColumns = `
id, first_name, last_name, phone, COALESCE(email, ''), COALESCE(company, ''),
COALESCE(timezone, ''), status, source, score, COALESCE(tags, '[]'::jsonb),
COALESCE(metadata, 'null'::jsonb), COALESCE(notes, ''), COALESCE(assigned_to_id, ''),
created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, l Lead) error {
	const q = `
INSERT INTO leads (
  id, first_name, last_name, phone, email, company, timezone,
  status, source, score, tags, metadata, notes, assigned_to_id, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
`
	_, err := r.db.ExecContext(ctx, q, insertArgs(l)...)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Lead, error) {
	q := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return scanLead(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepository) Update(ctx context.Context, l Lead) error {
	const q = `
UPDATE leads SET
  first_name = $2, last_name = $3, phone = $4, email = $5, company = $6,
  timezone = $7, status = $8, source = $9, score = $10, tags = $11,
  metadata = $12, notes = $13, assigned_to_id = $14, updated_at = $15
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q,
		l.ID, l.FirstName, l.LastName, l.Phone,
		nullable(l.Email), nullable(l.Company), nullable(l.Timezone),
		l.Status, l.Source, l.Score, tagsJSON(l.Tags), metadataOrNull(l.Metadata),
		nullable(l.Notes), nullable(l.AssignedToID), time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]Lead, int, error) {
	where := []string{"1=1"}
	args := []any{}
	argPos := 1

	if f.Search != "" {
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone LIKE $%d OR company ILIKE $%d)",
			argPos, argPos, argPos, argPos, argPos))
		args = append(args, "%"+f.Search+"%")
		argPos++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(f.Status))
		argPos++
	}
	if f.Source != "" {
		where = append(where, fmt.Sprintf("source = $%d", argPos))
		args = append(args, string(f.Source))
		argPos++
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQ := `SELECT COUNT(*) FROM leads WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.SortOrder == "desc" {
		dir = "DESC"
	}

	q := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		leadColumns, cond, col, dir, argPos, argPos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) BulkInsert(ctx context.Context, ls []Lead) (int, error) {
	const q = `
INSERT INTO leads (
  id, first_name, last_name, phone, email, company, timezone,
  status, source, score, tags, metadata, notes, assigned_to_id, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (phone) DO NOTHING
`
	inserted := 0
	for _, l := range ls {
		res, err := r.db.ExecContext(ctx, q, insertArgs(l)...)
		if err != nil {
			return inserted, err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (r *PostgresRepository) BulkAssign(ctx context.Context, leadIDs []string, assignedToID string) (int, error) {
	if len(leadIDs) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(leadIDs))
	args := []any{assignedToID, time.Now().UTC()}
	for i, id := range leadIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+3)
		args = append(args, id)
	}

	q := fmt.Sprintf(`UPDATE leads SET assigned_to_id = $1, updated_at = $2 WHERE id IN (%s)`,
		strings.Join(placeholders, ","))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func insertArgs(l Lead) []any {
	return []any{
		l.ID, l.FirstName, l.LastName, l.Phone,
		nullable(l.Email), nullable(l.Company), nullable(l.Timezone),
		l.Status, l.Source, l.Score, tagsJSON(l.Tags), metadataOrNull(l.Metadata),
		nullable(l.Notes), nullable(l.AssignedToID), l.CreatedAt, l.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var l Lead
	var tags, metadata []byte
	if err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Phone, &l.Email, &l.Company,
		&l.Timezone, &l.Status, &l.Source, &l.Score, &tags, &metadata,
		&l.Notes, &l.AssignedToID, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	if len(tags) > 0 {
		_ = json.Unmarshal(tags, &l.Tags)
	}
	if len(metadata) > 0 && string(metadata) != "null" {
		l.Metadata = metadata
	}
	return l, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func metadataOrNull(m json.RawMessage) any {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}

func tagsJSON(tags []string) []byte {
	if len(tags) == 0 {
		return []byte("[]")
	}
	b, _ := json.Marshal(tags)
	return b
}
