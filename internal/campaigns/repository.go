package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ListFilter pages a campaign listing.
type ListFilter struct {
	Search    string
	SortOrder string
	Limit     int
	Offset    int
}

// Repository is the persistence contract for campaigns and their lead associations.
//
// Assumed tables (Postgres):
//
//	campaigns (id, name, description, script, voice_id, max_retries,
//	           retry_delay_minutes, calling_window_start, calling_window_end,
//	           timezone, status, created_by_id, created_at, updated_at)
//	campaign_leads (id, campaign_id, lead_id, status, attempts, last_attempt_at,
//	                created_at, UNIQUE (campaign_id, lead_id))
type Repository interface {
	Create(ctx context.Context, cp Campaign) error
	GetByID(ctx context.Context, id string) (Campaign, error)
	Update(ctx context.Context, cp Campaign) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]Campaign, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// AddLeads associates leads with a campaign. Pairs that already exist are
	// silently skipped; the returned count is the number of new associations.
	AddLeads(ctx context.Context, cls []CampaignLead) (int, error)
	ListLeads(ctx context.Context, campaignID string) ([]CampaignLead, error)
}

var ErrNotFound = errors.New("campaigns: not found")

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const campaignColumns = `
id, name, COALESCE(description, ''), script, COALESCE(voice_id, ''),
max_retries, retry_delay_minutes, calling_window_start, calling_window_end,
timezone, status, COALESCE(created_by_id, ''), created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, cp Campaign) error {
	const q = `
INSERT INTO campaigns (
  id, name, description, script, voice_id, max_retries, retry_delay_minutes,
  calling_window_start, calling_window_end, timezone, status, created_by_id,
  created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`
	_, err := r.db.ExecContext(ctx, q,
		cp.ID, cp.Name, nullable(cp.Description), cp.Script, nullable(cp.VoiceID),
		cp.MaxRetries, cp.RetryDelayMinutes, cp.CallingWindowStart, cp.CallingWindowEnd,
		cp.Timezone, cp.Status, nullable(cp.CreatedByID), cp.CreatedAt, cp.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Campaign, error) {
	q := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	return scanCampaign(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepository) Update(ctx context.Context, cp Campaign) error {
	const q = `
UPDATE campaigns SET
  name = $2, description = $3, script = $4, voice_id = $5, max_retries = $6,
  retry_delay_minutes = $7, calling_window_start = $8, calling_window_end = $9,
  timezone = $10, status = $11, updated_at = $12
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q,
		cp.ID, cp.Name, nullable(cp.Description), cp.Script, nullable(cp.VoiceID),
		cp.MaxRetries, cp.RetryDelayMinutes, cp.CallingWindowStart, cp.CallingWindowEnd,
		cp.Timezone, cp.Status, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]Campaign, int, error) {
	where := []string{"1=1"}
	args := []any{}
	argPos := 1

	if f.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+f.Search+"%")
		argPos++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if f.SortOrder == "desc" {
		dir = "DESC"
	}
	q := fmt.Sprintf(`SELECT %s FROM campaigns WHERE %s ORDER BY created_at %s LIMIT $%d OFFSET $%d`,
		campaignColumns, cond, dir, argPos, argPos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Campaign{}
	for rows.Next() {
		cp, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, cp)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE campaigns SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) AddLeads(ctx context.Context, cls []CampaignLead) (int, error) {
	const q = `
INSERT INTO campaign_leads (id, campaign_id, lead_id, status, attempts, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (campaign_id, lead_id) DO NOTHING
`
	added := 0
	for _, cl := range cls {
		res, err := r.db.ExecContext(ctx, q, cl.ID, cl.CampaignID, cl.LeadID, cl.Status, cl.Attempts, cl.CreatedAt)
		if err != nil {
			return added, err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			added++
		}
	}
	return added, nil
}

func (r *PostgresRepository) ListLeads(ctx context.Context, campaignID string) ([]CampaignLead, error) {
	const q = `
SELECT id, campaign_id, lead_id, status, attempts, last_attempt_at, created_at
FROM campaign_leads
WHERE campaign_id = $1
ORDER BY status ASC
`
	rows, err := r.db.QueryContext(ctx, q, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CampaignLead{}
	for rows.Next() {
		var cl CampaignLead
		var lastAttempt sql.NullTime
		if err := rows.Scan(&cl.ID, &cl.CampaignID, &cl.LeadID, &cl.Status, &cl.Attempts, &lastAttempt, &cl.CreatedAt); err != nil {
			return nil, err
		}
		if lastAttempt.Valid {
			t := lastAttempt.Time
			cl.LastAttemptAt = &t
		}
		out = append(out, cl)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (Campaign, error) {
	var cp Campaign
	if err := row.Scan(
		&cp.ID, &cp.Name, &cp.Description, &cp.Script, &cp.VoiceID,
		&cp.MaxRetries, &cp.RetryDelayMinutes, &cp.CallingWindowStart, &cp.CallingWindowEnd,
		&cp.Timezone, &cp.Status, &cp.CreatedByID, &cp.CreatedAt, &cp.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		return Campaign{}, err
	}
	return cp, nil
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
