package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/user"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
	user_id                TEXT PRIMARY KEY,
	daily_goal             INTEGER,
	avg_drink_cost         DOUBLE PRECISION,
	avg_drink_cals         INTEGER,
	registered_date        TEXT NOT NULL DEFAULT '',
	typical_week           JSONB,
	weekly_targets         JSONB,
	weekly_plan_week_start TEXT NOT NULL DEFAULT '',
	unlocked_milestones    JSONB NOT NULL DEFAULT '[]',
	fcm_tokens             TEXT[] NOT NULL DEFAULT '{}',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS daily_logs (
	user_id       TEXT NOT NULL,
	date          TEXT NOT NULL,
	count         INTEGER,
	goal          INTEGER,
	cost_per_unit DOUBLE PRECISION,
	cals_per_unit INTEGER,
	chat_count    INTEGER NOT NULL DEFAULT 0,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, date)
);
`

const profileColumns = `daily_goal, avg_drink_cost, avg_drink_cals, registered_date, typical_week,
	weekly_targets, weekly_plan_week_start, unlocked_milestones, fcm_tokens, created_at, updated_at`

const logColumns = `date, count, goal, cost_per_unit, cals_per_unit, chat_count, updated_at`

// PostgresStore is the relational backend. Row locks taken with
// SELECT ... FOR UPDATE give the same read-modify-write guarantee the
// Firestore transactions do.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", classifyPostgres(err))
	}
	return nil
}

func scanProfile(row pgx.Row, p *user.Profile) error {
	return row.Scan(
		&p.DailyGoal,
		&p.AvgDrinkCost,
		&p.AvgDrinkCals,
		&p.RegisteredDate,
		&p.TypicalWeek,
		&p.WeeklyTargets,
		&p.WeeklyPlanWeekStart,
		&p.Achievements.UnlockedMilestones,
		&p.FCMTokens,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func scanLog(row pgx.Row, l *dailylog.DailyLog) error {
	return row.Scan(
		&l.Date,
		&l.Count,
		&l.Goal,
		&l.CostPerUnit,
		&l.CalsPerUnit,
		&l.ChatCount,
		&l.UpdatedAt,
	)
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`

	p := &user.Profile{}
	if err := scanProfile(s.db.QueryRow(ctx, query, userID), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", classifyPostgres(err))
	}
	return p, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, userID string, fn ProfileMutator) (*user.Profile, error) {
	var result user.Profile

	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		// Insert first so concurrent creators serialize on the row lock below.
		tag, err := tx.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
		if err != nil {
			return err
		}
		exists := tag.RowsAffected() == 0

		p := user.Profile{}
		query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1 FOR UPDATE`
		if err := scanProfile(tx.QueryRow(ctx, query, userID), &p); err != nil {
			return err
		}
		if !exists {
			p = user.Profile{}
		}

		if err := fn(&p, exists); err != nil {
			return err
		}
		if p.Achievements.UnlockedMilestones == nil {
			p.Achievements.UnlockedMilestones = []user.UnlockEvent{}
		}
		if p.FCMTokens == nil {
			p.FCMTokens = []string{}
		}

		_, err = tx.Exec(ctx, `
			UPDATE user_profiles SET
				daily_goal = $2,
				avg_drink_cost = $3,
				avg_drink_cals = $4,
				registered_date = $5,
				typical_week = $6,
				weekly_targets = $7,
				weekly_plan_week_start = $8,
				unlocked_milestones = $9,
				fcm_tokens = $10,
				updated_at = NOW()
			WHERE user_id = $1
		`,
			userID,
			p.DailyGoal,
			p.AvgDrinkCost,
			p.AvgDrinkCals,
			p.RegisteredDate,
			p.TypicalWeek,
			p.WeeklyTargets,
			p.WeeklyPlanWeekStart,
			p.Achievements.UnlockedMilestones,
			p.FCMTokens,
		)
		result = p
		return err
	})
	if err != nil {
		return nil, classifyPostgres(err)
	}
	return &result, nil
}

func (s *PostgresStore) GetLog(ctx context.Context, userID, date string) (*dailylog.DailyLog, error) {
	query := `SELECT ` + logColumns + ` FROM daily_logs WHERE user_id = $1 AND date = $2`

	l := &dailylog.DailyLog{}
	if err := scanLog(s.db.QueryRow(ctx, query, userID, date), l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get daily log: %w", classifyPostgres(err))
	}
	return l, nil
}

func (s *PostgresStore) ListLogs(ctx context.Context, userID string, q dailylog.Query) ([]dailylog.DailyLog, error) {
	order := "ASC"
	if q.Descending {
		order = "DESC"
	}
	limit := any(nil)
	if q.Limit > 0 {
		limit = q.Limit
	}

	query := `
	SELECT ` + logColumns + `
	FROM daily_logs
	WHERE user_id = $1
		AND ($2 = '' OR date >= $2)
		AND ($3 = '' OR date <= $3)
	ORDER BY date ` + order + `
	LIMIT $4
	`

	rows, err := s.db.Query(ctx, query, userID, q.From, q.To, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", classifyPostgres(err))
	}
	defer rows.Close()

	logs := []dailylog.DailyLog{}
	for rows.Next() {
		var l dailylog.DailyLog
		if err := scanLog(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", classifyPostgres(err))
	}
	return logs, nil
}

func (s *PostgresStore) UpdateLog(ctx context.Context, userID, date string, fn LogMutator) (*dailylog.DailyLog, error) {
	var result dailylog.DailyLog

	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `INSERT INTO daily_logs (user_id, date) VALUES ($1, $2) ON CONFLICT (user_id, date) DO NOTHING`, userID, date)
		if err != nil {
			return err
		}
		exists := tag.RowsAffected() == 0

		l := dailylog.DailyLog{}
		query := `SELECT ` + logColumns + ` FROM daily_logs WHERE user_id = $1 AND date = $2 FOR UPDATE`
		if err := scanLog(tx.QueryRow(ctx, query, userID, date), &l); err != nil {
			return err
		}
		if !exists {
			l = dailylog.DailyLog{Date: date}
		}

		if err := fn(&l, exists); err != nil {
			return err
		}
		if l.UpdatedAt.IsZero() {
			l.UpdatedAt = time.Now()
		}

		_, err = tx.Exec(ctx, `
			UPDATE daily_logs SET
				count = $3,
				goal = $4,
				cost_per_unit = $5,
				cals_per_unit = $6,
				chat_count = $7,
				updated_at = $8
			WHERE user_id = $1 AND date = $2
		`, userID, date, l.Count, l.Goal, l.CostPerUnit, l.CalsPerUnit, l.ChatCount, l.UpdatedAt)
		result = l
		return err
	})
	if err != nil {
		return nil, classifyPostgres(err)
	}
	return &result, nil
}

func (s *PostgresStore) DeleteLog(ctx context.Context, userID, date string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM daily_logs WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return fmt.Errorf("failed to delete daily log: %w", classifyPostgres(err))
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func classifyPostgres(err error) error {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	return err
}
