package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/working-groups/pkg/core/model"
)

func TestValidateCoreInvariants_ValidPartition(t *testing.T) {
	groups := []*model.WorkingGroup{
		{ID: "0", Weeks: []int{1, 3}, Members: []model.Member{member("1", "h1", 1)}},
		{ID: "1", Weeks: []int{2}, Members: []model.Member{member("2", "h2", 1)}},
	}

	errors := validateCoreInvariants(groups, []int{1, 2, 3})
	assert.Empty(t, errors)
}

func TestValidateCoreInvariants_MissingWeek(t *testing.T) {
	groups := []*model.WorkingGroup{
		{ID: "0", Weeks: []int{1}},
		{ID: "1", Weeks: []int{}},
	}

	errors := validateCoreInvariants(groups, []int{1, 2})
	require.Len(t, errors, 1)
	assert.Equal(t, CoreInvariantName, errors[0].ConstraintName)
	assert.Contains(t, errors[0].Description, "Week 2 is not assigned")
}

func TestValidateCoreInvariants_WeekInTwoGroups(t *testing.T) {
	groups := []*model.WorkingGroup{
		{ID: "0", Name: "Modige Ulve", Weeks: []int{1, 2}},
		{ID: "1", Name: "Glade Odder", Weeks: []int{2}},
	}

	errors := validateCoreInvariants(groups, []int{1, 2})
	require.Len(t, errors, 1)
	assert.Equal(t, "1", errors[0].GroupID)
	assert.Equal(t, "Glade Odder", errors[0].GroupName)
	assert.Contains(t, errors[0].Description, "Week 2 is assigned more often")
}

func TestValidateCoreInvariants_DuplicateMember(t *testing.T) {
	shared := member("7", "h1", 1)
	groups := []*model.WorkingGroup{
		{ID: "0", Members: []model.Member{shared}},
		{ID: "1", Members: []model.Member{shared}},
	}

	errors := validateCoreInvariants(groups, nil)
	require.Len(t, errors, 1)
	assert.Contains(t, errors[0].Description, "Member '7' is also placed in group 0")
}

func TestValidateGroups_CollectsConstraintErrors(t *testing.T) {
	fragileA := member("1", "h1", 1)
	fragileA.Weight = 0.2
	fragileB := member("2", "h1", 1)
	fragileB.Weight = 0.2

	groups := []*model.WorkingGroup{
		{ID: "0", Name: "Stærke Ørne", Weeks: []int{1}, Members: []model.Member{fragileA, fragileB}},
	}

	errors := ValidateGroups(groups, []int{1}, DefaultConstraints())
	require.Len(t, errors, 2)

	names := []string{errors[0].ConstraintName, errors[1].ConstraintName}
	assert.ElementsMatch(t, []string{"Household", "FragileMember"}, names)
}

func TestValidateGroups_NoConstraints(t *testing.T) {
	groups := []*model.WorkingGroup{
		{ID: "0", Weeks: []int{1}, Members: []model.Member{member("1", "h1", 1), member("2", "h1", 1)}},
	}

	errors := ValidateGroups(groups, []int{1}, nil)
	assert.Empty(t, errors)
}
