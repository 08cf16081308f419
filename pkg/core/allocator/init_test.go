package allocator

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/working-groups/pkg/core/model"
)

func TestBuildScoreTiers_AscendingDistinctScores(t *testing.T) {
	members := []model.Member{
		member("a", "h1", 3),
		member("b", "h2", 1),
		member("c", "h3", 0),
		member("d", "h4", 3),
		member("e", "h5", 10),
	}

	tiers := BuildScoreTiers(members, rand.New(rand.NewPCG(7, 7)))

	require.Len(t, tiers, 4)
	assert.Equal(t, 0, tiers[0].Score)
	assert.Equal(t, 1, tiers[1].Score)
	assert.Equal(t, 3, tiers[2].Score)
	assert.Equal(t, 10, tiers[3].Score)

	assert.Len(t, tiers[2].Members, 2)
	assert.ElementsMatch(t, []string{"a", "d"}, []string{tiers[2].Members[0].ID, tiers[2].Members[1].ID})
}

func TestBuildScoreTiers_NoMembers(t *testing.T) {
	tiers := BuildScoreTiers(nil, rand.New(rand.NewPCG(1, 1)))
	assert.Empty(t, tiers)
}

func TestBuildScoreTiers_ShuffleIsSeeded(t *testing.T) {
	var members []model.Member
	for i := 0; i < 10; i++ {
		members = append(members, member(string(rune('a'+i)), "h", 1))
	}

	first := BuildScoreTiers(members, rand.New(rand.NewPCG(42, 1)))
	second := BuildScoreTiers(members, rand.New(rand.NewPCG(42, 1)))

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, members, first[0].Members)
}

func TestInitWorkingGroups(t *testing.T) {
	groups, duplicates := InitWorkingGroups(InitWorkingGroupsInput{
		Weeks:      []int{1, 2, 3, 4, 5},
		GroupCount: 2,
		Names:      NewNameAllocator(sequentialNames()),
	})

	require.Len(t, groups, 2)
	assert.Empty(t, duplicates)

	assert.Equal(t, "0", groups[0].ID)
	assert.Equal(t, "Group 1", groups[0].Name)
	assert.Equal(t, []int{1, 3, 5}, groups[0].Weeks)

	assert.Equal(t, "1", groups[1].ID)
	assert.Equal(t, "Group 2", groups[1].Name)
	assert.Equal(t, []int{2, 4}, groups[1].Weeks)
}

func TestInitAllocation_DefaultsConstraints(t *testing.T) {
	allocator, err := InitAllocation(newTestConfig(nil, nil, 1))
	require.NoError(t, err)

	require.Len(t, allocator.constraints, 3)
	assert.Equal(t, "Household", allocator.constraints[0].Name())
	assert.Equal(t, "Unavailability", allocator.constraints[1].Name())
	assert.Equal(t, "FragileMember", allocator.constraints[2].Name())
}

func TestPartitionWeeks(t *testing.T) {
	tests := []struct {
		name     string
		weeks    []int
		count    int
		expected [][]int
	}{
		{
			name:     "even split",
			weeks:    []int{1, 2, 3, 4, 5, 6},
			count:    3,
			expected: [][]int{{1, 4}, {2, 5}, {3, 6}},
		},
		{
			name:     "uneven split",
			weeks:    []int{1, 2, 3, 4, 5, 6, 8, 9, 10, 11, 12, 13},
			count:    5,
			expected: [][]int{{1, 6, 12}, {2, 8, 13}, {3, 9}, {4, 10}, {5, 11}},
		},
		{
			name:     "more groups than weeks",
			weeks:    []int{20},
			count:    3,
			expected: [][]int{{20}, {}, {}},
		},
		{
			name:     "no weeks",
			weeks:    nil,
			count:    2,
			expected: [][]int{{}, {}},
		},
		{
			name:     "invalid count",
			weeks:    []int{1, 2},
			count:    0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PartitionWeeks(tt.weeks, tt.count)
			assert.Equal(t, tt.expected, result)
			for _, partition := range result {
				assert.NotNil(t, partition)
			}
		})
	}
}

func TestPartitionWeeks_Deterministic(t *testing.T) {
	weeks := []int{5, 3, 9, 1, 7}
	assert.Equal(t, PartitionWeeks(weeks, 2), PartitionWeeks(weeks, 2))
}
