package request

import (
	"testing"
	"time"

	"yamdb/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestTitleYearBounds(t *testing.T) {
	thisYear := time.Now().Year()

	tests := []struct {
		name  string
		year  int
		valid bool
	}{
		{"current year", thisYear, true},
		{"first year", 1, true},
		{"zero", 0, false},
		{"negative", -1, false},
		{"far below int32", -5000000000, false},
		{"future", thisYear + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := tt.year
			errs := utils.ValidateStruct(&TitleUpdateRequest{Year: &y})
			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, "year")
			}

			create := TitleRequest{Name: "Dune", Year: tt.year, Category: "book", Genre: []string{"sci-fi"}}
			if tt.valid {
				assert.Empty(t, utils.ValidateStruct(&create))
			} else {
				assert.Contains(t, utils.ValidateStruct(&create), "year")
			}
		})
	}
}

func TestPaginatedRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PaginatedRequest{}.Offset())
	assert.Equal(t, 10, PaginatedRequest{Page: 2}.Offset())
	assert.Equal(t, 200, PaginatedRequest{Page: 3, PerPage: 500}.Offset())

	huge := PaginatedRequest{Page: int(^uint(0) >> 1), PerPage: utils.MaxPerPage}
	assert.Equal(t, (utils.MaxPage-1)*utils.MaxPerPage, huge.Offset())
}
