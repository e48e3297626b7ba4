package models

import "strings"

// Actor is the authenticated principal a request runs as.
type Actor struct {
	UserID uint
	TeamID *uint
	Role   string
}

// ActorFor builds an Actor from a loaded user record.
func ActorFor(u *User) Actor {
	return Actor{UserID: u.ID, TeamID: u.TeamID, Role: u.Role}
}

// IdeaAction enumerates the mutations the policy rules on.
type IdeaAction string

const (
	ActionUpdate             IdeaAction = "update"
	ActionSideline           IdeaAction = "sideline"
	ActionDelete             IdeaAction = "delete"
	ActionAddCollaborator    IdeaAction = "add_collaborator"
	ActionRemoveCollaborator IdeaAction = "remove_collaborator"
)

// Can is the single authorization policy for idea mutations:
//
//	update:              owner, collaborator, or admin
//	sideline, delete:    owner or admin (collaborators excluded)
//	add collaborator:    owner or collaborator (no admin override)
//	remove collaborator: owner only
//
// Existence and scope are checked by callers before consulting the policy;
// Can only answers allow/deny for an idea the actor can already see.
func (i *Idea) Can(actor Actor, action IdeaAction) bool {
	isOwner := i.OwnerID == actor.UserID
	isCollaborator := i.HasCollaborator(actor.UserID)
	isAdmin := actor.Role == RoleAdmin

	switch action {
	case ActionUpdate:
		return isOwner || isCollaborator || isAdmin
	case ActionSideline, ActionDelete:
		return isOwner || isAdmin
	case ActionAddCollaborator:
		return isOwner || isCollaborator
	case ActionRemoveCollaborator:
		return isOwner
	}
	return false
}

// VisibleTo reports whether the user may see the idea in listings:
// owner, collaborator, PUBLIC for everyone, or GROUP visibility where the
// user owns or belongs to the allowed group. Requires AllowedGroup (with
// members) to be loaded for GROUP ideas.
func (i *Idea) VisibleTo(userID uint) bool {
	if i.OwnerID == userID || i.HasCollaborator(userID) {
		return true
	}
	switch i.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityGroup:
		return i.AllowedGroup != nil && i.AllowedGroup.CanAccess(userID)
	}
	return false
}

// IdeaFilter is the typed criteria set for idea listings. Zero values mean
// "no restriction"; sidelined ideas are excluded unless IncludeSidelined.
type IdeaFilter struct {
	StageGate        string
	Search           string
	Tag              string
	IncludeSidelined bool
}

// Matches applies the filter to a single idea. Search is a case-insensitive
// substring match over title and description; the tag filter matches against
// the raw comma-separated tag string.
func (f *IdeaFilter) Matches(i *Idea) bool {
	if i.IsSidelined && !f.IncludeSidelined {
		return false
	}
	if f.StageGate != "" && i.StageGate != f.StageGate {
		return false
	}
	if f.Tag != "" && !strings.Contains(i.Tags, f.Tag) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(i.Title), needle) &&
			!strings.Contains(strings.ToLower(i.Description), needle) {
			return false
		}
	}
	return true
}
