package db

import "context"

// schema is the idempotent DDL for everything this service owns. Applied once
// at process warm-up rather than lazily per write, so a missing-permission
// error surfaces at startup instead of masquerading as a missing table.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		rank TEXT NOT NULL DEFAULT 'vagrant',
		roles TEXT[] NOT NULL DEFAULT '{}',
		is_shaman BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS certifications (
		user_id TEXT NOT NULL,
		skill_id TEXT NOT NULL REFERENCES skills (id),
		certified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS instruction_requests (
		id TEXT PRIMARY KEY,
		skill_id TEXT NOT NULL REFERENCES skills (id),
		cadet_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		guide_id TEXT,
		session_room_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS channels (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		access_min_rank TEXT,
		allowed_role_tags TEXT[],
		is_read_only BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE TABLE IF NOT EXISTS room_presence (
		room_name TEXT NOT NULL,
		participant_identity TEXT NOT NULL,
		user_id TEXT,
		joined_at TIMESTAMPTZ NOT NULL,
		left_at TIMESTAMPTZ,
		active BOOLEAN NOT NULL DEFAULT true,
		PRIMARY KEY (room_name, participant_identity)
	)`,
	`CREATE TABLE IF NOT EXISTS push_subscriptions (
		user_id TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		auth TEXT NOT NULL,
		p256dh TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, endpoint)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_instruction_requests_cadet ON instruction_requests (cadet_id)`,
	`CREATE INDEX IF NOT EXISTS idx_certifications_skill ON certifications (skill_id)`,
	`CREATE INDEX IF NOT EXISTS idx_room_presence_open ON room_presence (room_name) WHERE left_at IS NULL`,
}

// EnsureSchema applies the DDL statements in order.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
