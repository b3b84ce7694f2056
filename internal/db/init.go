package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS services (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    domain TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS data_categories (
    id TEXT PRIMARY KEY,
    service_id TEXT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
    kind TEXT NOT NULL,
    is_collected BOOLEAN NOT NULL DEFAULT FALSE,
    is_required BOOLEAN NOT NULL DEFAULT FALSE,
    is_shared_with_third_parties BOOLEAN NOT NULL DEFAULT FALSE,
    opt_out_available BOOLEAN NOT NULL DEFAULT FALSE,
    can_be_deleted BOOLEAN NOT NULL DEFAULT FALSE,
    risk_score DOUBLE PRECISION,
    UNIQUE (service_id, kind)
);

CREATE TABLE IF NOT EXISTS policies (
    id TEXT PRIMARY KEY,
    service_id TEXT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
    policy_type TEXT NOT NULL,
    data_sharing_score DOUBLE PRECISION,
    user_control_score DOUBLE PRECISION,
    is_current BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE UNIQUE INDEX IF NOT EXISTS policies_current_idx
    ON policies (service_id, policy_type) WHERE is_current;

CREATE TABLE IF NOT EXISTS user_services (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    service_id TEXT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'active',
    added_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, service_id)
);

CREATE TABLE IF NOT EXISTS user_preferences (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    data_category TEXT NOT NULL,
    avoid_sharing BOOLEAN NOT NULL DEFAULT TRUE,
    importance_level INTEGER NOT NULL DEFAULT 3,
    UNIQUE (user_id, data_category)
);

CREATE TABLE IF NOT EXISTS privacy_scores (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    overall_score DOUBLE PRECISION NOT NULL,
    data_collection_score DOUBLE PRECISION NOT NULL,
    data_sharing_score DOUBLE PRECISION NOT NULL,
    user_control_score DOUBLE PRECISION NOT NULL,
    preference_match_score DOUBLE PRECISION NOT NULL,
    improvement_potential DOUBLE PRECISION NOT NULL,
    score_trend TEXT NOT NULL DEFAULT 'stable',
    factors_analyzed INTEGER NOT NULL DEFAULT 0,
    recommendations_count INTEGER NOT NULL DEFAULT 0,
    calculation_note TEXT NOT NULL DEFAULT '',
    calculated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS privacy_scores_user_time_idx
    ON privacy_scores (user_id, calculated_at DESC);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
