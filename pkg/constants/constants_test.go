package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	s, ok := ParseOrderStatus("closed")
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, s)

	s, ok = ParseOrderStatus("waiting_parts")
	assert.True(t, ok)
	assert.Equal(t, StatusWaitingParts, s)

	_, ok = ParseOrderStatus("archived")
	assert.False(t, ok)
	_, ok = ParseOrderStatus("")
	assert.False(t, ok)
}

func TestOrderStatus_IsClosed(t *testing.T) {
	assert.True(t, StatusCompleted.IsClosed())
	assert.True(t, StatusClosedAlias.IsClosed())
	assert.False(t, StatusCancelled.IsClosed())
	assert.False(t, StatusRepaired.IsClosed())
}

func TestStatusFilterValues(t *testing.T) {
	assert.ElementsMatch(t, []string{"completed", "closed"}, StatusFilterValues("closed"))
	assert.ElementsMatch(t, []string{"completed", "closed"}, StatusFilterValues("completed"))
	assert.Equal(t, []string{"pending"}, StatusFilterValues("pending"))
	assert.Nil(t, StatusFilterValues(""))
}

func TestParseCommentTypeOrDefault(t *testing.T) {
	assert.Equal(t, CommentTechnical, ParseCommentTypeOrDefault("technical"))
	assert.Equal(t, CommentClient, ParseCommentTypeOrDefault(""))
	assert.Equal(t, CommentClient, ParseCommentTypeOrDefault("internal"))
}

func TestEnumsValidity(t *testing.T) {
	assert.True(t, RoleTechnician.IsValid())
	assert.False(t, Role("owner").IsValid())
	assert.True(t, ServiceRemoteAssistance.IsValid())
	assert.False(t, ServiceType("painting").IsValid())
	assert.Len(t, OrderStatuses(), 6)
	assert.Equal(t, "Завершено", StatusClosedAlias.Label())
}
