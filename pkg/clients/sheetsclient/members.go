package sheetsclient

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/core/model"
)

// Member sheet columns, in order
const (
	columnID = iota
	columnName
	columnHousehold
	columnScore
	columnWeight
	columnWeeks
)

// MalformedMemberRecordError reports a member row that cannot be parsed
type MalformedMemberRecordError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *MalformedMemberRecordError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed member record at row %d: invalid %s %q", e.Row, e.Field, e.Value)
	}
	return fmt.Sprintf("malformed member record at row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *MalformedMemberRecordError) Unwrap() error {
	return e.Err
}

// ListMembers retrieves and parses members from the configured members range
func (c *Client) ListMembers(cfg *config.Config) ([]model.Member, error) {
	values, err := c.GetValues(cfg.SpreadsheetID, cfg.MembersRange)
	if err != nil {
		return nil, fmt.Errorf("failed to get member data: %w", err)
	}

	members, err := ParseMembers(values, startRow(cfg.MembersRange))
	if err != nil {
		return nil, fmt.Errorf("failed to parse members: %w", err)
	}

	return members, nil
}

// FilterEligible returns the members with a positive weight
func FilterEligible(members []model.Member) []model.Member {
	eligible := make([]model.Member, 0, len(members))
	for _, member := range members {
		if member.IsEligible() {
			eligible = append(eligible, member)
		}
	}
	return eligible
}

// ParseMembers converts raw rows (id, name, household, score, weight, weeks) into members.
// firstRow is the sheet row number of raw[0] and is only used in error messages.
// Blank rows are skipped. An empty weight reads as 0. Members with a positive weight
// need a score of at least 1; excluded members may leave it blank.
func ParseMembers(raw [][]interface{}, firstRow int) ([]model.Member, error) {
	members := make([]model.Member, 0, len(raw))

	for i, row := range raw {
		rowNumber := firstRow + i
		if isBlankRow(row) {
			continue
		}

		member := model.Member{
			ID:        cell(row, columnID),
			Name:      cell(row, columnName),
			Household: cell(row, columnHousehold),
		}

		if member.ID == "" {
			return nil, &MalformedMemberRecordError{Row: rowNumber, Field: "id"}
		}

		scoreValue := cell(row, columnScore)
		if scoreValue != "" {
			score, err := strconv.Atoi(scoreValue)
			if err != nil {
				return nil, &MalformedMemberRecordError{Row: rowNumber, Field: "score", Value: scoreValue, Err: err}
			}
			member.Score = score
		}

		if value := cell(row, columnWeight); value != "" {
			// Sheets in a Danish locale render decimals with a comma
			weight, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
			if err != nil {
				return nil, &MalformedMemberRecordError{Row: rowNumber, Field: "weight", Value: value, Err: err}
			}
			if math.IsNaN(weight) || math.IsInf(weight, 0) {
				return nil, &MalformedMemberRecordError{Row: rowNumber, Field: "weight", Value: value}
			}
			member.Weight = weight
		}

		// Excluded rows may leave the score blank; allocated rows need a tier of 1 or above
		if member.IsEligible() && member.Score < 1 {
			return nil, &MalformedMemberRecordError{Row: rowNumber, Field: "score", Value: scoreValue}
		}

		weeks, err := ParseWeeks(cell(row, columnWeeks))
		if err != nil {
			return nil, &MalformedMemberRecordError{Row: rowNumber, Field: "weeks", Value: cell(row, columnWeeks), Err: err}
		}
		member.Weeks = weeks

		members = append(members, member)
	}

	return members, nil
}

// ParseWeeks parses an unavailability cell: empty, a single week, or a comma separated list
func ParseWeeks(value string) ([]int, error) {
	weeks := []int{}
	if strings.TrimSpace(value) == "" {
		return weeks, nil
	}

	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		week, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("week %q is not a number", part)
		}
		weeks = append(weeks, week)
	}

	return weeks, nil
}

// cell returns the trimmed string value at index, or "" if the row is short
func cell(row []interface{}, index int) string {
	if index >= len(row) || row[index] == nil {
		return ""
	}
	if s, ok := row[index].(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(row[index]))
}

func isBlankRow(row []interface{}) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

// startRow returns the first row number of an A1 range such as "Medlemmer!A2:F51"
func startRow(a1Range string) int {
	ref := a1Range
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	if i := strings.Index(ref, ":"); i >= 0 {
		ref = ref[:i]
	}

	digits := strings.TrimLeftFunc(ref, unicode.IsLetter)
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return 1
	}
	return row
}
