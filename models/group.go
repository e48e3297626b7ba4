package models

import "gorm.io/gorm"

// Group is a collaboration circle owned by a single user. The owner is not
// automatically part of the member set.
type Group struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `json:"owner,omitempty"`

	Members []User `gorm:"many2many:group_members;" json:"members,omitempty"`

	// Ideas shared with this group (back-reference only)
	Ideas []Idea `gorm:"foreignKey:AllowedGroupID" json:"ideas,omitempty"`
}

// HasMember reports whether the user is in the group's member set.
func (g *Group) HasMember(userID uint) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// CanAccess reports whether the user owns the group or is a member of it.
func (g *Group) CanAccess(userID uint) bool {
	return g.OwnerID == userID || g.HasMember(userID)
}

// Invitation statuses
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationDeclined = "DECLINED"
)

// GroupInvitation tracks a single invitation per (group, receiver) pair.
// A declined invitation is reused on re-invite instead of creating a new row,
// so the unique index always holds.
type GroupInvitation struct {
	gorm.Model
	GroupID    uint   `gorm:"not null;uniqueIndex:idx_group_receiver" json:"group_id"`
	SenderID   uint   `gorm:"not null" json:"sender_id"`
	ReceiverID uint   `gorm:"not null;uniqueIndex:idx_group_receiver" json:"receiver_id"`
	Status     string `gorm:"default:'PENDING'" json:"status"` // PENDING, ACCEPTED, DECLINED

	Group    Group `json:"group,omitempty"`
	Sender   User  `json:"sender,omitempty"`
	Receiver User  `json:"-"`
}

// CanReinvite reports whether an existing invitation row may be reset back
// to PENDING. Only declined invitations take the backward transition;
// accepted ones are terminal and pending ones are a conflict.
func (i *GroupInvitation) CanReinvite() bool {
	return i.Status == InvitationDeclined
}

// CanRespond reports whether the invitation is still awaiting an answer.
func (i *GroupInvitation) CanRespond() bool {
	return i.Status == InvitationPending
}
