package calls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadvoice/pkg/utils"
)

// ListFilter pages and filters a local call listing.
type ListFilter struct {
	LeadID    string
	Status    Status
	Outcome   Outcome
	SortOrder string
	Limit     int
	Offset    int
}

// Completion carries every write of the call-completion cascade. The
// repository applies all of them atomically so a partial failure cannot
// leave the call, its event log, and the campaign association disagreeing.
type Completion struct {
	CallID        string
	Outcome       Outcome
	DurationSecs  int
	RecordingURL  string
	Transcription string
	EndedAt       time.Time
	Event         CallEvent

	// CampaignLeadID, when set, is marked COMPLETED with its attempt
	// counter incremented and lastAttemptAt stamped.
	CampaignLeadID string

	// QualifyLeadID, when set, promotes that lead to QUALIFIED.
	QualifyLeadID string
}

// Repository is the persistence contract for calls and their event log.
//
// Assumed tables (Postgres):
//
//	calls (id, lead_id, campaign_lead_id, provider_call_id, status, direction,
//	       duration, recording_url, transcription, outcome, started_at,
//	       ended_at, created_at, updated_at)
//	call_events (id, call_id, event, data, created_at,
//	             FOREIGN KEY (call_id) REFERENCES calls ON DELETE CASCADE)
type Repository interface {
	Create(ctx context.Context, call Call) error
	GetByID(ctx context.Context, id string) (Call, error)
	GetByProviderCallID(ctx context.Context, providerCallID string) (Call, error)
	List(ctx context.Context, f ListFilter) ([]Call, int, error)

	// MarkDispatched records the provider's call id and moves the call to RINGING.
	MarkDispatched(ctx context.Context, callID, providerCallID string, at time.Time) error
	MarkFailed(ctx context.Context, callID string, at time.Time) error

	AppendEvent(ctx context.Context, ev CallEvent) error
	ListEvents(ctx context.Context, callID string) ([]CallEvent, error)

	// Complete applies the completion cascade in one transaction and
	// returns the updated call.
	Complete(ctx context.Context, cpl Completion) (Call, error)
}

var ErrNotFound = errors.New("calls: not found")

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const callColumns = `
id, lead_id, COALESCE(campaign_lead_id, ''), COALESCE(provider_call_id, ''),
status, direction, duration, COALESCE(recording_url, ''),
COALESCE(transcription, ''), COALESCE(outcome, ''), started_at, ended_at,
created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, call Call) error {
	const q = `
INSERT INTO calls (
  id, lead_id, campaign_lead_id, provider_call_id, status, direction, duration,
  recording_url, transcription, outcome, started_at, ended_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`
	_, err := r.db.ExecContext(ctx, q,
		call.ID, call.LeadID, nullable(call.CampaignLeadID), nullable(call.ProviderCallID),
		call.Status, call.Direction, call.DurationSecs,
		nullable(call.RecordingURL), nullable(call.Transcription), nullable(string(call.Outcome)),
		call.StartedAt, call.EndedAt, call.CreatedAt, call.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Call, error) {
	q := `SELECT ` + callColumns + ` FROM calls WHERE id = $1`
	return scanCall(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepository) GetByProviderCallID(ctx context.Context, providerCallID string) (Call, error) {
	q := `SELECT ` + callColumns + ` FROM calls WHERE provider_call_id = $1`
	return scanCall(r.db.QueryRowContext(ctx, q, providerCallID))
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]Call, int, error) {
	where := []string{"1=1"}
	args := []any{}
	argPos := 1

	if f.LeadID != "" {
		where = append(where, fmt.Sprintf("lead_id = $%d", argPos))
		args = append(args, f.LeadID)
		argPos++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, f.Status)
		argPos++
	}
	if f.Outcome != "" {
		where = append(where, fmt.Sprintf("outcome = $%d", argPos))
		args = append(args, f.Outcome)
		argPos++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calls WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}
	q := fmt.Sprintf(`SELECT %s FROM calls WHERE %s ORDER BY created_at %s LIMIT $%d OFFSET $%d`,
		callColumns, cond, dir, argPos, argPos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Call{}
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, call)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) MarkDispatched(ctx context.Context, callID, providerCallID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE calls SET provider_call_id = $2, status = $3, updated_at = $4 WHERE id = $1`,
		callID, providerCallID, StatusRinging, at)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, callID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE calls SET status = $2, updated_at = $3 WHERE id = $1`,
		callID, StatusFailed, at)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) AppendEvent(ctx context.Context, ev CallEvent) error {
	const q = `INSERT INTO call_events (id, call_id, event, data, created_at) VALUES ($1,$2,$3,$4,$5)`
	data := []byte(ev.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}
	_, err := r.db.ExecContext(ctx, q, ev.ID, ev.CallID, ev.Event, data, ev.CreatedAt)
	return err
}

func (r *PostgresRepository) ListEvents(ctx context.Context, callID string) ([]CallEvent, error) {
	const q = `SELECT id, call_id, event, data, created_at FROM call_events WHERE call_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, callID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CallEvent{}
	for rows.Next() {
		var ev CallEvent
		var data []byte
		if err := rows.Scan(&ev.ID, &ev.CallID, &ev.Event, &data, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Data = data
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Complete(ctx context.Context, cpl Completion) (Call, error) {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const updateCall = `
UPDATE calls SET
  status = $2, duration = $3, recording_url = $4, transcription = $5,
  outcome = $6, ended_at = $7, updated_at = $7
WHERE id = $1
`
		res, err := tx.ExecContext(ctx, updateCall,
			cpl.CallID, StatusCompleted, cpl.DurationSecs,
			nullable(cpl.RecordingURL), nullable(cpl.Transcription),
			string(cpl.Outcome), cpl.EndedAt)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return err
		}

		data := []byte(cpl.Event.Data)
		if len(data) == 0 {
			data = []byte("{}")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO call_events (id, call_id, event, data, created_at) VALUES ($1,$2,$3,$4,$5)`,
			cpl.Event.ID, cpl.Event.CallID, cpl.Event.Event, data, cpl.Event.CreatedAt); err != nil {
			return err
		}

		if cpl.CampaignLeadID != "" {
			if _, err := tx.ExecContext(ctx,
				`UPDATE campaign_leads SET status = 'COMPLETED', attempts = attempts + 1, last_attempt_at = $2 WHERE id = $1`,
				cpl.CampaignLeadID, cpl.EndedAt); err != nil {
				return err
			}
		}

		if cpl.QualifyLeadID != "" {
			if _, err := tx.ExecContext(ctx,
				`UPDATE leads SET status = 'QUALIFIED', updated_at = $2 WHERE id = $1`,
				cpl.QualifyLeadID, cpl.EndedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Call{}, err
	}
	return r.GetByID(ctx, cpl.CallID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCall(row rowScanner) (Call, error) {
	var call Call
	var outcome string
	var endedAt sql.NullTime
	if err := row.Scan(
		&call.ID, &call.LeadID, &call.CampaignLeadID, &call.ProviderCallID,
		&call.Status, &call.Direction, &call.DurationSecs, &call.RecordingURL,
		&call.Transcription, &outcome, &call.StartedAt, &endedAt,
		&call.CreatedAt, &call.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Call{}, ErrNotFound
		}
		return Call{}, err
	}
	call.Outcome = Outcome(outcome)
	if endedAt.Valid {
		t := endedAt.Time
		call.EndedAt = &t
	}
	return call, nil
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
