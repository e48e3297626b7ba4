package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Stage gates
const (
	StageIdea          = "IDEA"
	StageInDevelopment = "IN_DEVELOPMENT"
	StageLaunched      = "LAUNCHED"
	StageSidelined     = "SIDELINED"
)

// Visibility modes
const (
	VisibilityPrivate = "PRIVATE"
	VisibilityPublic  = "PUBLIC"
	VisibilityGroup   = "GROUP"
)

// ValidStageGate reports whether s is one of the known stage gates.
func ValidStageGate(s string) bool {
	switch s {
	case StageIdea, StageInDevelopment, StageLaunched, StageSidelined:
		return true
	}
	return false
}

// ValidVisibility reports whether v is one of the known visibility modes.
func ValidVisibility(v string) bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityGroup:
		return true
	}
	return false
}

// Idea is the central entity of the platform. It is owned exclusively by its
// creator; collaborators are additive grants, not co-owners.
type Idea struct {
	gorm.Model

	// Sequential number within the owner's numbering scope, plus a value
	// from the shared global counter.
	IdeaNumber    int `gorm:"not null" json:"idea_number"`
	GlobalCounter int `gorm:"not null" json:"global_counter"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Opportunity string `json:"opportunity"`

	// Tags is a raw comma-separated string, parsed by consumers.
	Tags string `json:"tags"`

	StageGate   string `gorm:"default:'IDEA'" json:"stage_gate"` // IDEA, IN_DEVELOPMENT, LAUNCHED, SIDELINED
	IsSidelined bool   `gorm:"default:false" json:"is_sidelined"`

	Visibility     string `gorm:"default:'PRIVATE'" json:"visibility"` // PRIVATE, PUBLIC, GROUP
	AllowedGroupID *uint  `gorm:"index" json:"allowed_group_id,omitempty"`
	AllowedGroup   *Group `json:"allowed_group,omitempty"`

	OwnerID uint  `gorm:"not null;index" json:"owner_id"`
	Owner   User  `json:"owner,omitempty"`
	TeamID  *uint `gorm:"index" json:"team_id,omitempty"`

	Collaborators []User `gorm:"many2many:idea_collaborators;" json:"collaborators,omitempty"`
}

// HasCollaborator reports whether the user is in the idea's collaborator set.
func (i *Idea) HasCollaborator(userID uint) bool {
	for _, c := range i.Collaborators {
		if c.ID == userID {
			return true
		}
	}
	return false
}

// ToggleSideline flips the sideline state. Turning it on parks the stage gate
// at SIDELINED; turning it off always resets to IDEA, not to the stage the
// idea held before.
func (i *Idea) ToggleSideline() {
	i.IsSidelined = !i.IsSidelined
	if i.IsSidelined {
		i.StageGate = StageSidelined
	} else {
		i.StageGate = StageIdea
	}
}

// NumberingScope returns the key within which idea numbers are sequential:
// the owner's team, or a synthetic personal scope when they have none.
func NumberingScope(teamID *uint, ownerID uint) string {
	if teamID != nil {
		return fmt.Sprintf("team-%d", *teamID)
	}
	return fmt.Sprintf("personal-%d", ownerID)
}

// IdeaCounter holds the last allocated idea number per numbering scope.
// Rows are bumped with a single upsert so concurrent creates in the same
// scope cannot hand out duplicates.
type IdeaCounter struct {
	Scope string `gorm:"primaryKey" json:"scope"`
	Value int    `gorm:"not null" json:"value"`
}

// GlobalCounterID is the key of the single shared counter row.
const GlobalCounterID = "singleton"

// GlobalCounter is the shared monotonic counter, one row for the whole store.
type GlobalCounter struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Value int    `gorm:"not null" json:"value"`
}

// IdeaUpdate carries the fields of a partial update. Nil pointers leave the
// stored value untouched.
type IdeaUpdate struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Opportunity    *string `json:"opportunity"`
	Tags           *string `json:"tags"`
	Visibility     *string `json:"visibility"`
	AllowedGroupID *uint   `json:"allowed_group_id"`
	StageGate      *string `json:"stage_gate"`
}

var (
	ErrInvalidVisibility = errors.New("invalid visibility")
	ErrInvalidStageGate  = errors.New("invalid stage gate")
	ErrGroupRequired     = errors.New("allowed_group_id is required for GROUP visibility")
)

// Apply merges the update into the idea. Switching visibility away from
// GROUP clears the allowed group; switching to GROUP requires a group id in
// the same update. The stage gate is writable here without touching
// IsSidelined, so the two can diverge. Only the dedicated sideline action
// keeps them coupled.
func (u *IdeaUpdate) Apply(idea *Idea) error {
	if u.Visibility != nil && *u.Visibility != "" {
		if !ValidVisibility(*u.Visibility) {
			return ErrInvalidVisibility
		}
		if *u.Visibility == VisibilityGroup && u.AllowedGroupID == nil {
			return ErrGroupRequired
		}
	}
	if u.StageGate != nil && *u.StageGate != "" && !ValidStageGate(*u.StageGate) {
		return ErrInvalidStageGate
	}

	if u.Title != nil && *u.Title != "" {
		idea.Title = *u.Title
	}
	if u.Description != nil && *u.Description != "" {
		idea.Description = *u.Description
	}
	if u.Opportunity != nil {
		idea.Opportunity = *u.Opportunity
	}
	if u.Tags != nil {
		idea.Tags = *u.Tags
	}
	if u.Visibility != nil && *u.Visibility != "" {
		idea.Visibility = *u.Visibility
		if *u.Visibility == VisibilityGroup {
			idea.AllowedGroupID = u.AllowedGroupID
		} else {
			idea.AllowedGroupID = nil
		}
	}
	if u.StageGate != nil && *u.StageGate != "" {
		idea.StageGate = *u.StageGate
	}
	return nil
}
