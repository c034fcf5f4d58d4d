package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixtrack/internal/dto"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
)

func TestOrderCommentService_PermissionMatrix(t *testing.T) {
	f := newFixture()
	svc := NewOrderCommentService(f.orders, f.comments, zap.NewNop())
	admin := f.addUser("admin", constants.RoleAdmin)
	secretary := f.addUser("maria", constants.RoleSecretary)
	tech := f.addUser("carlos", constants.RoleTechnician)
	order := f.addOrder(constants.StatusInReview, &tech.ID, secretary.ID)

	cases := []struct {
		name        string
		ctxUser     string
		commentType string
		target      error
	}{
		{"секретарь пишет клиенту", "secretary", "client", nil},
		{"секретарь без технических", "secretary", "technical", apperrors.ErrForbidden},
		{"техник пишет технический", "technician", "technical", nil},
		{"техник не пишет клиенту", "technician", "client", apperrors.ErrForbidden},
		{"все пишут статус", "technician", "status_update", nil},
		{"администратор пишет всё", "admin", "technical", nil},
	}
	users := map[string]uint64{"admin": admin.ID, "secretary": secretary.ID, "technician": tech.ID}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := f.users.FindByID(ctxFor(admin), users[tc.ctxUser])
			require.NoError(t, err)
			_, err = svc.AddComment(ctxFor(u), order.ID, dto.CreateCommentDTO{Content: "Текст", CommentType: tc.commentType})
			if tc.target == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}

func TestOrderCommentService_DefaultsAndValidation(t *testing.T) {
	f := newFixture()
	svc := NewOrderCommentService(f.orders, f.comments, zap.NewNop())
	secretary := f.addUser("maria", constants.RoleSecretary)
	order := f.addOrder(constants.StatusPending, nil, secretary.ID)

	comment, err := svc.AddComment(ctxFor(secretary), order.ID, dto.CreateCommentDTO{Content: " Позвонить завтра "})
	require.NoError(t, err)
	assert.Equal(t, constants.CommentClient, comment.CommentType)
	assert.Equal(t, "Позвонить завтра", comment.Content)
	assert.Equal(t, secretary.ID, comment.UserID)

	_, err = svc.AddComment(ctxFor(secretary), order.ID, dto.CreateCommentDTO{Content: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.AddComment(ctxFor(secretary), 4040, dto.CreateCommentDTO{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderCommentService_TechOnlyOnOwnOrders(t *testing.T) {
	f := newFixture()
	svc := NewOrderCommentService(f.orders, f.comments, zap.NewNop())
	secretary := f.addUser("maria", constants.RoleSecretary)
	tech := f.addUser("carlos", constants.RoleTechnician)
	other := f.addUser("pedro", constants.RoleTechnician)
	order := f.addOrder(constants.StatusInReview, &tech.ID, secretary.ID)

	_, err := svc.AddTechComment(ctxFor(other), order.ID, dto.CreateCommentDTO{Content: "x", CommentType: "technical"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.AddTechComment(ctxFor(tech), order.ID, dto.CreateCommentDTO{Content: "x", CommentType: "client"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	comment, err := svc.AddTechComment(ctxFor(tech), order.ID, dto.CreateCommentDTO{Content: "Заменён диск", CommentType: "technical"})
	require.NoError(t, err)
	assert.Equal(t, constants.CommentTechnical, comment.CommentType)
}
