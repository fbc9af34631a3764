package dashboard

import (
	"context"
	"database/sql"
	"time"
)

// Stats is the aggregate snapshot shown on the dashboard home.
type Stats struct {
	TotalLeads      int     `json:"totalLeads"`
	TotalCalls      int     `json:"totalCalls"`
	ActiveCampaigns int     `json:"activeCampaigns"`
	ConversionRate  float64 `json:"conversionRate"`
	AvgCallDuration float64 `json:"avgCallDuration"`
	CallsToday      int     `json:"callsToday"`
}

// CallPoint is one call in the recent-calls chart series.
type CallPoint struct {
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
	Outcome   string    `json:"outcome,omitempty"`
	Duration  int       `json:"duration"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Charts is the dashboard chart payload: a 30-day call series plus
// lead breakdowns.
type Charts struct {
	Calls         []CallPoint   `json:"calls"`
	LeadsByStatus []StatusCount `json:"leadsByStatus"`
	LeadsBySource []SourceCount `json:"leadsBySource"`
}

// Repository aggregates across the leads, calls and campaigns tables.
type Repository interface {
	Stats(ctx context.Context, now time.Time) (Stats, error)
	Charts(ctx context.Context, since time.Time) (Charts, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Stats(ctx context.Context, now time.Time) (Stats, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	const q = `
SELECT
  (SELECT COUNT(*) FROM leads),
  (SELECT COUNT(*) FROM calls),
  (SELECT COUNT(*) FROM campaigns WHERE status = 'ACTIVE'),
  (SELECT COUNT(*) FROM leads WHERE status = 'CONVERTED'),
  (SELECT COUNT(*) FROM calls WHERE created_at >= $1),
  (SELECT COALESCE(AVG(duration), 0) FROM calls WHERE status = 'COMPLETED')
`
	var s Stats
	var converted int
	err := r.db.QueryRowContext(ctx, q, startOfDay).Scan(
		&s.TotalLeads, &s.TotalCalls, &s.ActiveCampaigns,
		&converted, &s.CallsToday, &s.AvgCallDuration,
	)
	if err != nil {
		return Stats{}, err
	}
	if s.TotalLeads > 0 {
		s.ConversionRate = float64(converted) / float64(s.TotalLeads) * 100
	}
	return s, nil
}

func (r *PostgresRepository) Charts(ctx context.Context, since time.Time) (Charts, error) {
	out := Charts{
		Calls:         []CallPoint{},
		LeadsByStatus: []StatusCount{},
		LeadsBySource: []SourceCount{},
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT created_at, status, COALESCE(outcome, ''), duration
FROM calls WHERE created_at >= $1 ORDER BY created_at ASC`, since)
	if err != nil {
		return Charts{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var p CallPoint
		if err := rows.Scan(&p.CreatedAt, &p.Status, &p.Outcome, &p.Duration); err != nil {
			return Charts{}, err
		}
		out.Calls = append(out.Calls, p)
	}
	if err := rows.Err(); err != nil {
		return Charts{}, err
	}

	statusRows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return Charts{}, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var sc StatusCount
		if err := statusRows.Scan(&sc.Status, &sc.Count); err != nil {
			return Charts{}, err
		}
		out.LeadsByStatus = append(out.LeadsByStatus, sc)
	}
	if err := statusRows.Err(); err != nil {
		return Charts{}, err
	}

	sourceRows, err := r.db.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM leads GROUP BY source`)
	if err != nil {
		return Charts{}, err
	}
	defer sourceRows.Close()
	for sourceRows.Next() {
		var sc SourceCount
		if err := sourceRows.Scan(&sc.Source, &sc.Count); err != nil {
			return Charts{}, err
		}
		out.LeadsBySource = append(out.LeadsBySource, sc)
	}
	return out, sourceRows.Err()
}
