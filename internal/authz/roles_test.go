package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fixtrack/internal/entities"
	"fixtrack/pkg/constants"
)

func TestCan_RoleSets(t *testing.T) {
	assert.True(t, Can(constants.RoleAdmin, UsersManage))
	assert.False(t, Can(constants.RoleSecretary, UsersManage))
	assert.True(t, Can(constants.RoleSecretary, UsersView))

	assert.True(t, Can(constants.RoleSecretary, CommentsClientCreate))
	assert.False(t, Can(constants.RoleSecretary, CommentsTechnicalCreate))
	assert.True(t, Can(constants.RoleTechnician, CommentsTechnicalCreate))

	assert.False(t, Can(constants.RoleTechnician, OrdersList))
	assert.False(t, Can(constants.RoleTechnician, ScopeAll))
	assert.False(t, Can(constants.Role("guest"), OrdersView))

	assert.True(t, CanAny(constants.RoleTechnician, ReportsAdvanced, OrdersTechView))
	assert.Contains(t, PermissionsFor(constants.RoleTechnician), AttachmentsCreate)
}

func TestSession_CanAccessOrder(t *testing.T) {
	techID := uint64(5)
	order := &entities.Order{ID: 1, AssignedTechnicianID: &techID}

	assert.True(t, (&Session{AccountID: 99, Role: constants.RoleSecretary}).CanAccessOrder(order))
	assert.True(t, (&Session{AccountID: 99, Role: constants.RoleAdmin}).CanAccessOrder(order))
	assert.True(t, (&Session{AccountID: 5, Role: constants.RoleTechnician}).CanAccessOrder(order))
	assert.False(t, (&Session{AccountID: 6, Role: constants.RoleTechnician}).CanAccessOrder(order))
	assert.False(t, (&Session{AccountID: 6, Role: constants.RoleTechnician}).CanAccessOrder(&entities.Order{ID: 2}))

	var nilSession *Session
	assert.False(t, nilSession.CanAccessOrder(order))
}

func TestCommentPermission(t *testing.T) {
	assert.Equal(t, CommentsTechnicalCreate, CommentPermission(constants.CommentTechnical))
	assert.Equal(t, CommentsStatusUpdateCreate, CommentPermission(constants.CommentStatusUpdate))
	assert.Equal(t, CommentsClientCreate, CommentPermission(constants.CommentClient))
}
