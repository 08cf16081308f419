package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/working-groups/pkg/core/model"
)

func TestGroupRow(t *testing.T) {
	group := &model.WorkingGroup{
		ID:   "2",
		Name: "Modig Ulve",
		Members: []model.Member{
			{Name: "Anna", Household: "Hansen"},
			{Name: "Bo", Household: "Berg"},
		},
		Weeks: []int{3, 7, 11},
	}

	assert.Equal(t, []interface{}{"2", "Modig Ulve", "Anna-Hansen,Bo-Berg", "3,7,11"}, GroupRow(group))
}

func TestGroupRow_EmptyGroup(t *testing.T) {
	group := &model.WorkingGroup{ID: "0", Name: "Rask Odder"}
	assert.Equal(t, []interface{}{"0", "Rask Odder", "", ""}, GroupRow(group))
}
