package db

import (
	"context"
	"time"

	"frontier/hub/internal/model"
)

func (s *Store) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var profile model.Profile
	row := s.pool.QueryRow(ctx, `
		SELECT id, display_name, rank, roles, is_shaman, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, userID)
	err := row.Scan(
		&profile.ID,
		&profile.DisplayName,
		&profile.Rank,
		&profile.Roles,
		&profile.IsShaman,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	return profile, err
}

func (s *Store) GetSkill(ctx context.Context, skillID string) (model.Skill, error) {
	var skill model.Skill
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, category
		FROM skills
		WHERE id = $1
	`, skillID)
	err := row.Scan(&skill.ID, &skill.Name, &skill.Category)
	return skill, err
}

func (s *Store) GetChannel(ctx context.Context, channelID string) (model.Channel, error) {
	var channel model.Channel
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, access_min_rank, allowed_role_tags, is_read_only
		FROM channels
		WHERE id = $1
	`, channelID)
	err := row.Scan(
		&channel.ID,
		&channel.Name,
		&channel.AccessMinRank,
		&channel.AllowedRoleTags,
		&channel.IsReadOnly,
	)
	return channel, err
}

// ListCertifiedUserIDs returns every user certified for the skill, the
// candidate mentor set for a new instruction request.
func (s *Store) ListCertifiedUserIDs(ctx context.Context, skillID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id
		FROM certifications
		WHERE skill_id = $1
	`, skillID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) HasCertification(ctx context.Context, userID, skillID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM certifications WHERE user_id = $1 AND skill_id = $2
		)
	`, userID, skillID).Scan(&exists)
	return exists, err
}

func (s *Store) CreateInstructionRequest(ctx context.Context, req model.InstructionRequest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO instruction_requests (id, skill_id, cadet_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, req.ID, req.SkillID, req.CadetID, req.Status, req.CreatedAt)
	return err
}

func (s *Store) GetInstructionRequest(ctx context.Context, requestID string) (model.InstructionRequest, error) {
	var req model.InstructionRequest
	row := s.pool.QueryRow(ctx, `
		SELECT id, skill_id, cadet_id, status, guide_id, session_room_id, created_at, updated_at
		FROM instruction_requests
		WHERE id = $1
	`, requestID)
	err := row.Scan(
		&req.ID,
		&req.SkillID,
		&req.CadetID,
		&req.Status,
		&req.GuideID,
		&req.SessionRoomID,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	return req, err
}

// AcceptInstructionRequest performs the PENDING→ACTIVE transition as a
// compare-and-swap: the status guard in the WHERE clause makes a lost race
// affect zero rows. A null status counts as eligible. Returns false when the
// race was lost.
func (s *Store) AcceptInstructionRequest(ctx context.Context, requestID, guideID, sessionRoomID string, now time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE instruction_requests
		SET status = 'ACTIVE', guide_id = $2, session_room_id = $3, updated_at = $4
		WHERE id = $1 AND (status = 'PENDING' OR status IS NULL)
	`, requestID, guideID, sessionRoomID, now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpsertPresenceJoin records a participant join. Re-delivery of the same join
// overwrites the existing row as if newly joined instead of duplicating it.
func (s *Store) UpsertPresenceJoin(ctx context.Context, roomName, participantIdentity string, userID *string, joinedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_presence (room_name, participant_identity, user_id, joined_at, left_at, active)
		VALUES ($1, $2, $3, $4, NULL, true)
		ON CONFLICT (room_name, participant_identity)
		DO UPDATE SET user_id = EXCLUDED.user_id, joined_at = EXCLUDED.joined_at, left_at = NULL, active = true
	`, roomName, participantIdentity, userID, joinedAt)
	return err
}

// ClosePresence marks a participant as left. Absent or already-closed records
// are left untouched; duplicate and out-of-order deliveries are expected.
func (s *Store) ClosePresence(ctx context.Context, roomName, participantIdentity string, leftAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE room_presence
		SET left_at = $3, active = false
		WHERE room_name = $1 AND participant_identity = $2 AND left_at IS NULL
	`, roomName, participantIdentity, leftAt)
	return err
}

// CloseRoomPresence closes every still-open record for a finished room. The
// left_at IS NULL filter keeps replays from moving close times forward.
func (s *Store) CloseRoomPresence(ctx context.Context, roomName string, leftAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE room_presence
		SET left_at = $2, active = false
		WHERE room_name = $1 AND left_at IS NULL
	`, roomName, leftAt)
	return err
}

func (s *Store) GetPresence(ctx context.Context, roomName, participantIdentity string) (model.PresenceRecord, error) {
	var rec model.PresenceRecord
	row := s.pool.QueryRow(ctx, `
		SELECT room_name, participant_identity, user_id, joined_at, left_at, active
		FROM room_presence
		WHERE room_name = $1 AND participant_identity = $2
	`, roomName, participantIdentity)
	err := row.Scan(&rec.RoomName, &rec.ParticipantIdentity, &rec.UserID, &rec.JoinedAt, &rec.LeftAt, &rec.Active)
	return rec, err
}

func (s *Store) UpsertPushSubscription(ctx context.Context, sub model.PushSubscription) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO push_subscriptions (user_id, endpoint, auth, p256dh, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, endpoint)
		DO UPDATE SET auth = EXCLUDED.auth, p256dh = EXCLUDED.p256dh
	`, sub.UserID, sub.Endpoint, sub.Auth, sub.P256dh, sub.CreatedAt)
	return err
}
