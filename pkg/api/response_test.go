package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, 3, NewPaginationMeta(41, 1, 20).TotalPages)
	assert.Equal(t, 2, NewPaginationMeta(40, 1, 20).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(0, 1, 20).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(10, 1, 0).TotalPages)
}

func TestNewListBody_NilBecomesEmpty(t *testing.T) {
	body := NewListBody[string](nil, 0, 1, 10)
	assert.NotNil(t, body.List)
	assert.Empty(t, body.List)
}
