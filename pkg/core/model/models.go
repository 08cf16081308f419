package model

// Member represents a person eligible for working group assignment
type Member struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Household string  `json:"household"`
	Score     int     `json:"score"`  // Priority tier, lower tiers are placed first
	Weight    float64 `json:"weight"` // < 1 marks a fragile member, <= 0 excludes the member
	Weeks     []int   `json:"weeks"`  // Calendar weeks the member is unavailable
}

// IsFragile reports whether the member counts towards the one-per-group low weight cap
func (m Member) IsFragile() bool {
	return m.Weight < 1
}

// IsEligible reports whether the member should be considered for allocation at all
func (m Member) IsEligible() bool {
	return m.Weight > 0
}

// WorkingGroup represents a named group of members with its assigned weeks
type WorkingGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
	Weeks   []int    `json:"weeks"`
}

// CountWithScore returns the number of members in the group with the given score
func (g *WorkingGroup) CountWithScore(score int) int {
	count := 0
	for _, member := range g.Members {
		if member.Score == score {
			count++
		}
	}
	return count
}
