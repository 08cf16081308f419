package db

import "time"

// UnplacedGroupID marks a GroupAssignment recording a member no group could admit
const UnplacedGroupID = "unplaced"

// AllocationRun represents one recorded allocation
type AllocationRun struct {
	ID            string    `ssql_header:"id" ssql_type:"uuid"`
	CreatedAt     time.Time `ssql_header:"created_at" ssql_type:"timestamp"`
	Seed          string    `ssql_header:"seed" ssql_type:"text"`
	GroupCount    int       `ssql_header:"group_count" ssql_type:"int"`
	MemberCount   int       `ssql_header:"member_count" ssql_type:"int"`
	PlacedCount   int       `ssql_header:"placed_count" ssql_type:"int"`
	UnplacedCount int       `ssql_header:"unplaced_count" ssql_type:"int"`
}

// GroupAssignment represents one member's placement in a recorded run
type GroupAssignment struct {
	ID         string `ssql_header:"id" ssql_type:"uuid"`
	RunID      string `ssql_header:"run_id" ssql_type:"uuid"`
	GroupID    string `ssql_header:"group_id" ssql_type:"text"`
	GroupName  string `ssql_header:"group_name" ssql_type:"text"`
	MemberID   string `ssql_header:"member_id" ssql_type:"text"`
	MemberName string `ssql_header:"member_name" ssql_type:"text"`
	Household  string `ssql_header:"household" ssql_type:"text"`
	Weeks      string `ssql_header:"weeks" ssql_type:"text"`
}

// IsUnplaced reports whether the assignment records an unplaced member
func (a GroupAssignment) IsUnplaced() bool {
	return a.GroupID == UnplacedGroupID
}
