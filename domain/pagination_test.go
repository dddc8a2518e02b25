package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 4, ParsePage("4"))
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int64
		wantPage  int
		wantPages int
	}{
		{"empty result has one page", 1, 0, 1, 1},
		{"beyond last clamps to first", 3, 13, 1, 2},
		{"last page", 2, 13, 2, 2},
		{"exact multiple", 2, 24, 2, 2},
		{"negative page", -1, 50, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.total)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, PageSize, p.PageSize)
			assert.Equal(t, (tt.wantPage-1)*PageSize, p.Offset())
		})
	}
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	assert.NoError(t, v.OrNil())

	v.Add("name", "this field is required")
	v.Add("name", "ignored second message")
	v.Add("ingredients[0].text", "this field is required")

	err := v.OrNil()
	assert.Error(t, err)
	assert.Equal(t, "this field is required", v.Fields["name"])
	assert.Equal(t,
		"validation failed: ingredients[0].text: this field is required; name: this field is required",
		err.Error())
}
