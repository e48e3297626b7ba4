package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestIdeaCan(t *testing.T) {
	idea := &Idea{
		OwnerID:       1,
		Collaborators: []User{{Model: gormModel(2)}},
	}

	owner := Actor{UserID: 1, Role: RoleMember}
	collaborator := Actor{UserID: 2, Role: RoleMember}
	admin := Actor{UserID: 3, Role: RoleAdmin}
	stranger := Actor{UserID: 4, Role: RoleMember}

	tests := []struct {
		name   string
		actor  Actor
		action IdeaAction
		want   bool
	}{
		{"owner can update", owner, ActionUpdate, true},
		{"collaborator can update", collaborator, ActionUpdate, true},
		{"admin can update", admin, ActionUpdate, true},
		{"stranger cannot update", stranger, ActionUpdate, false},

		{"owner can sideline", owner, ActionSideline, true},
		{"collaborator cannot sideline", collaborator, ActionSideline, false},
		{"admin can sideline", admin, ActionSideline, true},
		{"stranger cannot sideline", stranger, ActionSideline, false},

		{"owner can delete", owner, ActionDelete, true},
		{"collaborator cannot delete", collaborator, ActionDelete, false},
		{"admin can delete", admin, ActionDelete, true},

		{"owner can add collaborator", owner, ActionAddCollaborator, true},
		{"collaborator can add collaborator", collaborator, ActionAddCollaborator, true},
		{"admin cannot add collaborator", admin, ActionAddCollaborator, false},

		{"owner can remove collaborator", owner, ActionRemoveCollaborator, true},
		{"collaborator cannot remove collaborator", collaborator, ActionRemoveCollaborator, false},
		{"admin cannot remove collaborator", admin, ActionRemoveCollaborator, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idea.Can(tt.actor, tt.action))
		})
	}
}

func TestIdeaCanUnknownAction(t *testing.T) {
	idea := &Idea{OwnerID: 1}
	assert.False(t, idea.Can(Actor{UserID: 1, Role: RoleAdmin}, IdeaAction("publish")))
}

func TestIdeaVisibleTo(t *testing.T) {
	group := &Group{
		OwnerID: 10,
		Members: []User{{Model: gormModel(11)}},
	}

	tests := []struct {
		name   string
		idea   Idea
		userID uint
		want   bool
	}{
		{"owner sees private idea", Idea{OwnerID: 1, Visibility: VisibilityPrivate}, 1, true},
		{"stranger does not see private idea", Idea{OwnerID: 1, Visibility: VisibilityPrivate}, 2, false},
		{
			"collaborator sees private idea",
			Idea{OwnerID: 1, Visibility: VisibilityPrivate, Collaborators: []User{{Model: gormModel(2)}}},
			2, true,
		},
		{"everyone sees public idea", Idea{OwnerID: 1, Visibility: VisibilityPublic}, 99, true},
		{
			"group owner sees group idea",
			Idea{OwnerID: 1, Visibility: VisibilityGroup, AllowedGroup: group},
			10, true,
		},
		{
			"group member sees group idea",
			Idea{OwnerID: 1, Visibility: VisibilityGroup, AllowedGroup: group},
			11, true,
		},
		{
			"outsider does not see group idea",
			Idea{OwnerID: 1, Visibility: VisibilityGroup, AllowedGroup: group},
			12, false,
		},
		{
			"member of a different group does not see group idea",
			Idea{OwnerID: 1, Visibility: VisibilityGroup, AllowedGroup: group},
			20, false,
		},
		{
			"group idea without loaded group is hidden",
			Idea{OwnerID: 1, Visibility: VisibilityGroup},
			10, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.idea.VisibleTo(tt.userID))
		})
	}
}

func TestIdeaFilterMatches(t *testing.T) {
	idea := Idea{
		Title:       "Solar Charger",
		Description: "A portable panel for field work",
		Tags:        "hardware,green,energy",
		StageGate:   StageInDevelopment,
	}

	tests := []struct {
		name   string
		idea   Idea
		filter IdeaFilter
		want   bool
	}{
		{"empty filter matches", idea, IdeaFilter{}, true},
		{"stage gate match", idea, IdeaFilter{StageGate: StageInDevelopment}, true},
		{"stage gate mismatch", idea, IdeaFilter{StageGate: StageLaunched}, false},
		{"tag substring match", idea, IdeaFilter{Tag: "green"}, true},
		{"tag partial token match", idea, IdeaFilter{Tag: "ener"}, true},
		{"tag mismatch", idea, IdeaFilter{Tag: "software"}, false},
		{"search title case-insensitive", idea, IdeaFilter{Search: "solar"}, true},
		{"search description case-insensitive", idea, IdeaFilter{Search: "FIELD"}, true},
		{"search mismatch", idea, IdeaFilter{Search: "battery"}, false},
		{
			"sidelined excluded by default",
			Idea{Title: "Parked", IsSidelined: true, StageGate: StageSidelined},
			IdeaFilter{},
			false,
		},
		{
			"sidelined included on request",
			Idea{Title: "Parked", IsSidelined: true, StageGate: StageSidelined},
			IdeaFilter{IncludeSidelined: true},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(&tt.idea))
		})
	}
}
