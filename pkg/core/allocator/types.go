package allocator

import "github.com/jakechorley/working-groups/pkg/core/model"

// GroupValidationError represents a constraint violation found in a finished allocation
type GroupValidationError struct {
	GroupID        string `json:"groupId"`
	GroupName      string `json:"groupName"`
	ConstraintName string `json:"constraint"`
	Description    string `json:"description"`
}

// Constraint defines a hard rule deciding whether a member may join a working group
type Constraint interface {
	// Name returns a human-readable identifier for this constraint
	Name() string

	// Admits reports whether the member may be added to the group as it currently stands.
	// Must be free of side effects: group membership changes between calls.
	Admits(member model.Member, group *model.WorkingGroup) bool

	// ValidateGroups checks finished groups against this constraint
	// Returns a slice of validation errors (empty if all valid)
	ValidateGroups(groups []*model.WorkingGroup) []GroupValidationError
}

// ScoreTier holds the members sharing one score, in processing order
type ScoreTier struct {
	Score   int
	Members []model.Member
}

// UnplacedMember records a member no group could admit
type UnplacedMember struct {
	Member model.Member `json:"member"`

	// Reason lists which constraint rejected the member for each group
	Reason string `json:"reason"`
}
