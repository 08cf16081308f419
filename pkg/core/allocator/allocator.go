package allocator

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/jakechorley/working-groups/pkg/core/model"
)

// Allocator places members into working groups tier by tier
type Allocator struct {
	constraints    []Constraint
	tiers          []ScoreTier
	groups         []*model.WorkingGroup
	weeks          []int
	duplicateNames []string
	unplaced       []UnplacedMember
}

// AllocationConfig contains the configuration for an allocation run
type AllocationConfig struct {
	// Members to place. Callers filter out members with weight <= 0 beforehand
	Members []model.Member

	// Weeks is the ordered list of calendar weeks shared out between the groups
	Weeks []int

	// GroupCount is the number of working groups to create
	GroupCount int

	// Rand drives the shuffle inside each score tier and should also back NameGenerator
	Rand *rand.Rand

	// NameGenerator produces candidate display names for groups
	NameGenerator NameGenerator

	// Constraints to enforce (defaults to DefaultConstraints when nil)
	Constraints []Constraint
}

// AllocationOutcome represents the result of an allocation run
type AllocationOutcome struct {
	// Groups are the populated working groups, in ID order
	Groups []*model.WorkingGroup

	// Unplaced contains members no group could admit
	Unplaced []UnplacedMember

	// DuplicateNames contains group names accepted after exhausting every name attempt
	DuplicateNames []string

	// ValidationErrors contains any constraint violations found in the final groups
	ValidationErrors []GroupValidationError

	// Success indicates every member was placed and the groups are valid
	Success bool
}

// PlacedCount returns the number of members assigned to a group
func (o *AllocationOutcome) PlacedCount() int {
	count := 0
	for _, group := range o.Groups {
		count += len(group.Members)
	}
	return count
}

// Allocate runs the tiered greedy assignment.
//
// Score tiers are processed in ascending order. Each member goes to the admissible group
// holding the fewest members of the same score; ties go to the lowest group index.
// Members that no group admits are reported in the outcome rather than dropped.
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	// Initialise allocator
	allocator, err := InitAllocation(config)
	if err != nil {
		return nil, err
	}

	for _, tier := range allocator.tiers {
		for _, member := range tier.Members {
			group := allocator.findBestGroup(member)
			if group == nil {
				allocator.unplace(member)
				continue
			}
			group.Members = append(group.Members, member)
		}
	}

	return allocator.buildOutcome(), nil
}

// findBestGroup returns the admissible group with the fewest members sharing the member's score
func (a *Allocator) findBestGroup(member model.Member) *model.WorkingGroup {
	candidates := make([]*model.WorkingGroup, 0, len(a.groups))
	for _, group := range a.groups {
		if CanAdmit(member, group, a.constraints) {
			candidates = append(candidates, group)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	// Stable so equal counts keep group order and the first group wins
	slices.SortStableFunc(candidates, func(x, y *model.WorkingGroup) int {
		return cmp.Compare(x.CountWithScore(member.Score), y.CountWithScore(member.Score))
	})

	return candidates[0]
}

// unplace records why no group could take the member
func (a *Allocator) unplace(member model.Member) {
	reasons := make([]string, 0, len(a.groups))
	for _, group := range a.groups {
		if name := rejectingConstraint(member, group, a.constraints); name != "" {
			reasons = append(reasons, fmt.Sprintf("group %s: %s", group.ID, name))
		}
	}

	a.unplaced = append(a.unplaced, UnplacedMember{
		Member: member,
		Reason: strings.Join(reasons, ", "),
	})
}

// buildOutcome creates the final allocation outcome report
func (a *Allocator) buildOutcome() *AllocationOutcome {
	outcome := &AllocationOutcome{
		Groups:         a.groups,
		Unplaced:       a.unplaced,
		DuplicateNames: a.duplicateNames,
	}

	outcome.ValidationErrors = ValidateGroups(a.groups, a.weeks, a.constraints)
	outcome.Success = len(outcome.Unplaced) == 0 && len(outcome.ValidationErrors) == 0

	return outcome
}
