package allocator

import (
	"fmt"

	"github.com/jakechorley/working-groups/pkg/core/model"
)

// CoreInvariantName is the constraint name reported for structural violations
const CoreInvariantName = "CoreInvariant"

// ValidateGroups validates the final groups against the core invariants and all provided constraints.
// Returns a slice of validation errors for any violations.
// An empty slice indicates the groups are valid.
func ValidateGroups(groups []*model.WorkingGroup, weeks []int, constraints []Constraint) []GroupValidationError {
	errors := validateCoreInvariants(groups, weeks)

	// Run validation for each constraint
	for _, constraint := range constraints {
		errors = append(errors, constraint.ValidateGroups(groups)...)
	}

	return errors
}

// validateCoreInvariants checks that the week slices partition the input weeks
// and that no member was placed twice
func validateCoreInvariants(groups []*model.WorkingGroup, weeks []int) []GroupValidationError {
	errors := []GroupValidationError{}

	expected := make(map[int]int, len(weeks))
	for _, week := range weeks {
		expected[week]++
	}

	assigned := make(map[int]int, len(weeks))
	memberGroup := make(map[string]*model.WorkingGroup)

	for _, group := range groups {
		for _, week := range group.Weeks {
			assigned[week]++
			if assigned[week] > expected[week] {
				errors = append(errors, GroupValidationError{
					GroupID:        group.ID,
					GroupName:      group.Name,
					ConstraintName: CoreInvariantName,
					Description:    fmt.Sprintf("Week %d is assigned more often than it appears in the week list", week),
				})
			}
		}

		for _, member := range group.Members {
			if other, ok := memberGroup[member.ID]; ok {
				errors = append(errors, GroupValidationError{
					GroupID:        group.ID,
					GroupName:      group.Name,
					ConstraintName: CoreInvariantName,
					Description:    fmt.Sprintf("Member '%s' is also placed in group %s", member.ID, other.ID),
				})
				continue
			}
			memberGroup[member.ID] = group
		}
	}

	for _, week := range weeks {
		if assigned[week] < expected[week] {
			errors = append(errors, GroupValidationError{
				ConstraintName: CoreInvariantName,
				Description:    fmt.Sprintf("Week %d is not assigned to any group", week),
			})
			// Report each missing week once
			assigned[week] = expected[week]
		}
	}

	return errors
}
