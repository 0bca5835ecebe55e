package models

import (
	"time"

	"gorm.io/datatypes"
)

type InviteStatus string

const (
	InviteProposed              InviteStatus = "proposed"
	InviteAcceptedByStudent     InviteStatus = "accepted_by_student"
	InviteAcceptedByMentor      InviteStatus = "accepted_by_mentor"
	InviteConfirmed             InviteStatus = "confirmed"
	InviteRejectedByStudent     InviteStatus = "rejected_by_student"
	InviteRejectedByMentor      InviteStatus = "rejected_by_mentor"
	InviteRejectedByFacilitator InviteStatus = "rejected_by_facilitator"
	// InviteExpired is never produced by an accept/reject action; the expiry
	// sweep sets it on invites that sat untouched past the retention window.
	InviteExpired InviteStatus = "expired"
)

// IsTerminal reports whether no further actions are allowed on the invite.
func (s InviteStatus) IsTerminal() bool {
	switch s {
	case InviteConfirmed, InviteRejectedByStudent, InviteRejectedByMentor,
		InviteRejectedByFacilitator, InviteExpired:
		return true
	}
	return false
}

// IsPending reports whether the invite still waits on at least one party.
func (s InviteStatus) IsPending() bool {
	return s == InviteProposed || s == InviteAcceptedByStudent || s == InviteAcceptedByMentor
}

// IsRejected reports whether any party declined the invite.
func (s InviteStatus) IsRejected() bool {
	return s == InviteRejectedByStudent || s == InviteRejectedByMentor || s == InviteRejectedByFacilitator
}

// NeedsFacilitatorReview reports whether one side has accepted and the invite
// now sits in the facilitator's queue.
func (s InviteStatus) NeedsFacilitatorReview() bool {
	return s == InviteAcceptedByStudent || s == InviteAcceptedByMentor
}

// InviteActor identifies who performs a lifecycle action.
type InviteActor string

const (
	ActorStudent     InviteActor = "student"
	ActorMentor      InviteActor = "mentor"
	ActorFacilitator InviteActor = "facilitator"
	ActorSystem      InviteActor = "system"
)

// InviteAction is a lifecycle action on an invite.
type InviteAction string

const (
	ActionAccept  InviteAction = "accept"
	ActionReject  InviteAction = "reject"
	ActionApprove InviteAction = "approve"
)

type Invite struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	StudentID string `json:"student_id" gorm:"not null;size:255;index;uniqueIndex:idx_invites_pair"`
	MentorID  string `json:"mentor_id" gorm:"not null;size:255;index;uniqueIndex:idx_invites_pair"`

	Score   int                         `json:"score" gorm:"not null" validate:"min=0,max=100"`
	Reasons datatypes.JSONSlice[string] `json:"reasons"`

	Status            InviteStatus `json:"status" gorm:"not null;size:30;default:proposed;index"`
	AcceptedByStudent bool         `json:"accepted_by_student" gorm:"not null;default:false"`
	AcceptedByMentor  bool         `json:"accepted_by_mentor" gorm:"not null;default:false"`

	CreatedBy InviteActor `json:"created_by" gorm:"not null;size:20"`

	// Rows are history once terminal; invites are never deleted.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Mentor  Mentor  `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`
}

func (Invite) TableName() string {
	return "invites"
}

// MutuallyAccepted reports whether both parties have accepted. Confirmed is
// only reachable when this holds.
func (i *Invite) MutuallyAccepted() bool {
	return i.AcceptedByStudent && i.AcceptedByMentor
}

// IdleSince returns how long the invite has gone without a status change.
func (i *Invite) IdleSince(now time.Time) time.Duration {
	return now.Sub(i.UpdatedAt)
}
