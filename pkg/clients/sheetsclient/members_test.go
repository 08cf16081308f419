package sheetsclient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/working-groups/pkg/core/model"
)

func TestParseMembers_ValidRows(t *testing.T) {
	raw := [][]interface{}{
		{"1", "Anna", "Hansen", "1", "1", ""},
		{"2", "Bo", "Hansen", "2", "0,5", "3, 4"},
		{}, // blank row skipped
		{"", " ", ""},
		{"3", "Cecilie", "Berg", float64(3), float64(2), "7"},
		{"4", "Dennis", "Holm"},
	}

	members, err := ParseMembers(raw, 2)
	require.NoError(t, err)
	require.Len(t, members, 4)

	assert.Equal(t, model.Member{ID: "1", Name: "Anna", Household: "Hansen", Score: 1, Weight: 1, Weeks: []int{}}, members[0])
	assert.Equal(t, 0.5, members[1].Weight)
	assert.Equal(t, []int{3, 4}, members[1].Weeks)
	assert.Equal(t, 3, members[2].Score)
	assert.Equal(t, 2.0, members[2].Weight)
	assert.Equal(t, []int{7}, members[2].Weeks)

	// Short row: missing cells read as empty
	assert.Equal(t, 0, members[3].Score)
	assert.Equal(t, 0.0, members[3].Weight)
	assert.Empty(t, members[3].Weeks)
}

func TestParseMembers_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		row   []interface{}
		field string
	}{
		{name: "missing id", row: []interface{}{"", "Anna", "Hansen", "1", "1"}, field: "id"},
		{name: "non-numeric score", row: []interface{}{"1", "Anna", "Hansen", "høj", "1"}, field: "score"},
		{name: "non-numeric weight", row: []interface{}{"1", "Anna", "Hansen", "1", "halv"}, field: "weight"},
		{name: "non-numeric week", row: []interface{}{"1", "Anna", "Hansen", "1", "1", "3,uge 4"}, field: "weeks"},
		{name: "NaN weight", row: []interface{}{"1", "Anna", "Hansen", "1", "NaN"}, field: "weight"},
		{name: "infinite weight", row: []interface{}{"1", "Cy", "Holm", "1", "Inf"}, field: "weight"},
		{name: "negative infinite weight", row: []interface{}{"1", "Cy", "Holm", "1", "-infinity"}, field: "weight"},
		{name: "blank score on eligible member", row: []interface{}{"1", "Bo", "Berg", "", "1"}, field: "score"},
		{name: "zero score on eligible member", row: []interface{}{"1", "Bo", "Berg", "0", "0,5"}, field: "score"},
		{name: "negative score on eligible member", row: []interface{}{"1", "Bo", "Berg", "-2", "1"}, field: "score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := [][]interface{}{
				{"0", "Ok", "Fine", "1", "1", ""},
				tt.row,
			}

			_, err := ParseMembers(raw, 2)
			require.Error(t, err)

			var recordErr *MalformedMemberRecordError
			require.True(t, errors.As(err, &recordErr))
			assert.Equal(t, 3, recordErr.Row)
			assert.Equal(t, tt.field, recordErr.Field)
			assert.Contains(t, err.Error(), "row 3")
		})
	}
}

func TestParseMembers_ExcludedRowsMayOmitScore(t *testing.T) {
	raw := [][]interface{}{
		{"1", "Anna", "Hansen", "", "0"},
		{"2", "Bo", "Berg", "0", ""},
		{"3", "Cy", "Holm", "", "-1"},
	}

	members, err := ParseMembers(raw, 2)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Empty(t, FilterEligible(members))
}

func TestParseWeeks(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
	}{
		{input: "", expected: []int{}},
		{input: "  ", expected: []int{}},
		{input: "5", expected: []int{5}},
		{input: "1,2,3", expected: []int{1, 2, 3}},
		{input: " 8 , 9 ", expected: []int{8, 9}},
		{input: "10,", expected: []int{10}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			weeks, err := ParseWeeks(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, weeks)
		})
	}

	_, err := ParseWeeks("1,x")
	assert.Error(t, err)
}

func TestStartRow(t *testing.T) {
	assert.Equal(t, 2, startRow("Medlemmer!A2:F51"))
	assert.Equal(t, 10, startRow("B10:C20"))
	assert.Equal(t, 1, startRow("Medlemmer"))
	assert.Equal(t, 1, startRow("Sheet!A:F"))
}

func TestFilterEligible(t *testing.T) {
	members := []model.Member{
		{ID: "1", Weight: 1},
		{ID: "2", Weight: 0},
		{ID: "3", Weight: 0.5},
		{ID: "4", Weight: -1},
	}

	eligible := FilterEligible(members)
	require.Len(t, eligible, 2)
	assert.Equal(t, "1", eligible[0].ID)
	assert.Equal(t, "3", eligible[1].ID)
}

func TestMalformedMemberRecordError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &MalformedMemberRecordError{Row: 4, Field: "score", Value: "x", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, `malformed member record at row 4: invalid score "x": boom`, err.Error())
}
