package allocator

import (
	"fmt"

	"github.com/jakechorley/working-groups/pkg/core/model"
)

// DefaultConstraints returns the hard constraints every allocation must respect
func DefaultConstraints() []Constraint {
	return []Constraint{
		NewHouseholdConstraint(),
		NewUnavailabilityConstraint(),
		NewFragileMemberConstraint(),
	}
}

// CanAdmit checks if a member can join a working group.
//
// Returns true only if every constraint admits the member. The result depends on the
// group's current members, so it must be evaluated again after every placement.
func CanAdmit(member model.Member, group *model.WorkingGroup, constraints []Constraint) bool {
	for _, constraint := range constraints {
		if !constraint.Admits(member, group) {
			return false
		}
	}
	return true
}

// rejectingConstraint returns the name of the first constraint refusing the member, or ""
func rejectingConstraint(member model.Member, group *model.WorkingGroup, constraints []Constraint) string {
	for _, constraint := range constraints {
		if !constraint.Admits(member, group) {
			return constraint.Name()
		}
	}
	return ""
}

// HouseholdConstraint keeps members of the same household in different groups.
//
// Validity:
//   - Returns false if any existing member shares the candidate's household
type HouseholdConstraint struct{}

// NewHouseholdConstraint creates a new HouseholdConstraint
func NewHouseholdConstraint() *HouseholdConstraint {
	return &HouseholdConstraint{}
}

func (c *HouseholdConstraint) Name() string {
	return "Household"
}

func (c *HouseholdConstraint) Admits(member model.Member, group *model.WorkingGroup) bool {
	for _, existing := range group.Members {
		if existing.Household == member.Household {
			return false
		}
	}
	return true
}

func (c *HouseholdConstraint) ValidateGroups(groups []*model.WorkingGroup) []GroupValidationError {
	var errors []GroupValidationError

	for _, group := range groups {
		seen := make(map[string]string)
		for _, member := range group.Members {
			if other, ok := seen[member.Household]; ok {
				errors = append(errors, GroupValidationError{
					GroupID:        group.ID,
					GroupName:      group.Name,
					ConstraintName: c.Name(),
					Description:    fmt.Sprintf("Members '%s' and '%s' share household '%s'", other, member.Name, member.Household),
				})
				continue
			}
			seen[member.Household] = member.Name
		}
	}

	return errors
}

// UnavailabilityConstraint keeps members with overlapping unavailable weeks apart.
//
// Validity:
//   - Returns false if any existing member is unavailable in a week the candidate is also unavailable
type UnavailabilityConstraint struct{}

// NewUnavailabilityConstraint creates a new UnavailabilityConstraint
func NewUnavailabilityConstraint() *UnavailabilityConstraint {
	return &UnavailabilityConstraint{}
}

func (c *UnavailabilityConstraint) Name() string {
	return "Unavailability"
}

func (c *UnavailabilityConstraint) Admits(member model.Member, group *model.WorkingGroup) bool {
	if len(member.Weeks) == 0 {
		return true
	}

	weeks := make(map[int]bool, len(member.Weeks))
	for _, week := range member.Weeks {
		weeks[week] = true
	}

	for _, existing := range group.Members {
		for _, week := range existing.Weeks {
			if weeks[week] {
				return false
			}
		}
	}
	return true
}

func (c *UnavailabilityConstraint) ValidateGroups(groups []*model.WorkingGroup) []GroupValidationError {
	var errors []GroupValidationError

	for _, group := range groups {
		// Week -> first member unavailable that week
		unavailableBy := make(map[int]model.Member)
		for _, member := range group.Members {
			for _, week := range member.Weeks {
				if other, ok := unavailableBy[week]; ok && other.ID != member.ID {
					errors = append(errors, GroupValidationError{
						GroupID:        group.ID,
						GroupName:      group.Name,
						ConstraintName: c.Name(),
						Description:    fmt.Sprintf("Members '%s' and '%s' are both unavailable in week %d", other.Name, member.Name, week),
					})
					continue
				}
				unavailableBy[week] = member
			}
		}
	}

	return errors
}

// FragileMemberConstraint allows at most one member with weight below 1 per group.
//
// Validity:
//   - Returns false if the candidate is fragile and the group already has a fragile member
type FragileMemberConstraint struct{}

// NewFragileMemberConstraint creates a new FragileMemberConstraint
func NewFragileMemberConstraint() *FragileMemberConstraint {
	return &FragileMemberConstraint{}
}

func (c *FragileMemberConstraint) Name() string {
	return "FragileMember"
}

func (c *FragileMemberConstraint) Admits(member model.Member, group *model.WorkingGroup) bool {
	if !member.IsFragile() {
		return true
	}
	for _, existing := range group.Members {
		if existing.IsFragile() {
			return false
		}
	}
	return true
}

func (c *FragileMemberConstraint) ValidateGroups(groups []*model.WorkingGroup) []GroupValidationError {
	var errors []GroupValidationError

	for _, group := range groups {
		fragileCount := 0
		for _, member := range group.Members {
			if member.IsFragile() {
				fragileCount++
			}
		}
		if fragileCount > 1 {
			errors = append(errors, GroupValidationError{
				GroupID:        group.ID,
				GroupName:      group.Name,
				ConstraintName: c.Name(),
				Description:    fmt.Sprintf("Group has %d members with weight below 1 (max 1 allowed)", fragileCount),
			})
		}
	}

	return errors
}
