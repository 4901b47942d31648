package model

import "time"

// Instruction request lifecycle states. Transitions out of PENDING happen at
// most once (first accept wins); COMPLETED and CANCELLED are set by the
// completion workflow, not by this service.
const (
	RequestStatusPending   = "PENDING"
	RequestStatusActive    = "ACTIVE"
	RequestStatusCompleted = "COMPLETED"
	RequestStatusCancelled = "CANCELLED"
)

type Profile struct {
	ID          string
	DisplayName string
	Rank        string
	Roles       []string
	IsShaman    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Skill struct {
	ID       string
	Name     string
	Category string
}

type Certification struct {
	UserID      string
	SkillID     string
	CertifiedAt time.Time
}

type InstructionRequest struct {
	ID            string
	SkillID       string
	CadetID       string
	Status        string
	GuideID       *string
	SessionRoomID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Channel struct {
	ID              string
	Name            string
	AccessMinRank   *string
	AllowedRoleTags []string
	IsReadOnly      bool
}

type Event struct {
	ID        string
	CreatedBy string
}

type PresenceRecord struct {
	RoomName            string
	ParticipantIdentity string
	UserID              *string
	JoinedAt            time.Time
	LeftAt              *time.Time
	Active              bool
}

type PushSubscription struct {
	UserID    string
	Endpoint  string
	Auth      string
	P256dh    string
	CreatedAt time.Time
}
