package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2, 3}, 2, 3, 7)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, int64(7), resp.Pagination.Total)

	empty := NewPaginatedResponse[int](nil, 1, 10, 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.Pagination.TotalPages)
}
