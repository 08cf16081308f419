package allocator

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/jakechorley/working-groups/pkg/core/model"
)

// InitAllocation validates the config and prepares tiers and empty groups
func InitAllocation(config AllocationConfig) (*Allocator, error) {
	if config.GroupCount < 1 {
		return nil, fmt.Errorf("group count must be positive, got %d", config.GroupCount)
	}
	if config.Rand == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if config.NameGenerator == nil {
		return nil, fmt.Errorf("name generator is required")
	}

	constraints := config.Constraints
	if constraints == nil {
		constraints = DefaultConstraints()
	}

	groups, duplicateNames := InitWorkingGroups(InitWorkingGroupsInput{
		Weeks:      config.Weeks,
		GroupCount: config.GroupCount,
		Names:      NewNameAllocator(config.NameGenerator),
	})

	return &Allocator{
		constraints:    constraints,
		tiers:          BuildScoreTiers(config.Members, config.Rand),
		groups:         groups,
		weeks:          config.Weeks,
		duplicateNames: duplicateNames,
		unplaced:       []UnplacedMember{},
	}, nil
}

// BuildScoreTiers splits members into one tier per distinct score.
//
// Tiers are ordered by ascending score. Members keep their input order inside a tier
// and are then shuffled with rng, so the processing order is reproducible for a seed.
func BuildScoreTiers(members []model.Member, rng *rand.Rand) []ScoreTier {
	byScore := make(map[int][]model.Member)
	for _, member := range members {
		byScore[member.Score] = append(byScore[member.Score], member)
	}

	scores := make([]int, 0, len(byScore))
	for score := range byScore {
		scores = append(scores, score)
	}
	slices.Sort(scores)

	tiers := make([]ScoreTier, 0, len(scores))
	for _, score := range scores {
		tierMembers := byScore[score]
		rng.Shuffle(len(tierMembers), func(i, j int) {
			tierMembers[i], tierMembers[j] = tierMembers[j], tierMembers[i]
		})
		tiers = append(tiers, ScoreTier{Score: score, Members: tierMembers})
	}

	return tiers
}

// InitWorkingGroupsInput contains the data needed to create the empty groups
type InitWorkingGroupsInput struct {
	// Weeks is the ordered list of calendar weeks to spread across groups
	Weeks []int

	// GroupCount is the number of groups to create
	GroupCount int

	// Names hands out the display names for this run
	Names *NameAllocator
}

// InitWorkingGroups creates GroupCount empty groups.
//
// Returns the groups (IDs "0".."n-1", weeks assigned round-robin) and any names that
// had to be accepted as duplicates.
func InitWorkingGroups(input InitWorkingGroupsInput) ([]*model.WorkingGroup, []string) {
	weekPartitions := PartitionWeeks(input.Weeks, input.GroupCount)
	groups := make([]*model.WorkingGroup, input.GroupCount)
	duplicateNames := []string{}

	for i := 0; i < input.GroupCount; i++ {
		name, unique := input.Names.Next()
		if !unique {
			duplicateNames = append(duplicateNames, name)
		}

		groups[i] = &model.WorkingGroup{
			ID:      strconv.Itoa(i),
			Name:    name,
			Members: []model.Member{},
			Weeks:   weekPartitions[i],
		}
	}

	return groups, duplicateNames
}
