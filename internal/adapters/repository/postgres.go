package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okian/rostersim/internal/domain/model"
	"github.com/okian/rostersim/pkg/logger"
	"github.com/okian/rostersim/pkg/metrics"
)

// statColumns maps accepted statistic names to boxscore columns. The stat
// name is interpolated into SQL, so only these are allowed.
var statColumns = map[string]string{ //nolint:gochecknoglobals // fixed whitelist
	"points":         "points",
	"rebounds":       "total_rebounds",
	"offensive_reb":  "offensive_rebounds",
	"defensive_reb":  "defensive_rebounds",
	"assists":        "assists",
	"steals":         "steals",
	"blocks":         "blocks",
	"turnovers":      "turnovers",
	"fouls":          "personal_fouls",
	"made_threes":    "made_three_point_field_goals",
	"made_fg":        "made_field_goals",
	"made_ft":        "made_free_throws",
	"attempted_fg":   "attempted_field_goals",
	"attempted_ft":   "attempted_free_throws",
	"game_score":     "game_score",
	"plus_minus":     "plus_minus",
	"minutes_played": "minutes_played",
}

// Stats lists the statistic names PostgresRepository accepts, sorted.
func Stats() []string {
	out := make([]string, 0, len(statColumns))
	for k := range statColumns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// linesQuery builds the per-game query for stat. Playoff games are filtered
// through the first bind parameter.
func linesQuery(stat string) (string, error) {
	col, ok := statColumns[stat]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStat, stat)
	}
	return fmt.Sprintf(`
		SELECT p.id_number, p.name, b.%s::float8, b.minutes_played::float8
		  FROM boxscores b
		  JOIN players p ON p.id = b.player_id
		 WHERE ($1::bool OR NOT b.is_playoffs)
		 ORDER BY b.player_id, b.id
	`, col), nil
}

// PostgresRepository reads box scores through a pgx connection pool.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgres parses dsn and opens a lazily connecting pool.
func NewPostgres(ctx context.Context, dsn string, opts ...Option) (*PostgresRepository, error) {
	o := options{logger: logger.Get().Named("repository")}
	for _, opt := range opts {
		opt(&o)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if o.maxConns > 0 {
		cfg.MaxConns = o.maxConns
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return &PostgresRepository{pool: p, logger: o.logger}, nil
}

// Ping checks that the database is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error { return r.pool.Ping(ctx) }

// Close releases all pooled connections.
func (r *PostgresRepository) Close() { r.pool.Close() }

// Lines implements StatRepository.
func (r *PostgresRepository) Lines(ctx context.Context, scope model.Scope) ([]model.GameLine, error) {
	q, err := linesQuery(scope.Stat)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := r.pool.Query(ctx, q, scope.IncludePlayoffs)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", scope.Stat, err)
	}
	defer rows.Close()

	var out []model.GameLine
	for rows.Next() {
		var (
			l  model.GameLine
			id int64
		)
		if err := rows.Scan(&id, &l.Name, &l.Value, &l.Minutes); err != nil {
			return nil, fmt.Errorf("scan %s: %w", scope.Stat, err)
		}
		l.AthleteID = model.AthleteID(id)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", scope.Stat, err)
	}

	elapsed := time.Since(start)
	metrics.RecordRepositoryQuery(float64(elapsed.Microseconds())/1000, len(out))
	r.logger.Info(ctx, "loaded game lines",
		logger.String("stat", scope.Stat),
		logger.Bool("include_playoffs", scope.IncludePlayoffs),
		logger.Int("rows", len(out)),
		logger.Duration("elapsed", elapsed))
	return out, nil
}
