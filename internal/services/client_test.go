package services

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixtrack/internal/dto"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/types"
)

func TestClientService_CreateAndDuplicate(t *testing.T) {
	f := newFixture()
	svc := NewClientService(f.clients, f.orders, zap.NewNop())
	secretary := f.addUser("maria", constants.RoleSecretary)
	ctx := ctxFor(secretary)

	created, err := svc.Create(ctx, dto.CreateClientDTO{Name: "Анна Смирнова", Phone: "600111222", Email: "anna@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Nil(t, created.Address)

	dup, err := svc.CheckDuplicate(ctx, "", "ANNA@example.com")
	require.NoError(t, err)
	require.True(t, dup.Exists)
	require.NotNil(t, dup.Client)
	assert.Equal(t, created.ID, dup.Client.ID)

	dup, err = svc.CheckDuplicate(ctx, "699999999", "")
	require.NoError(t, err)
	assert.False(t, dup.Exists)
	assert.Nil(t, dup.Client)

	_, err = svc.CheckDuplicate(ctx, " ", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, dto.CreateClientDTO{Name: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestClientService_DetailAndUpdate(t *testing.T) {
	f := newFixture()
	svc := NewClientService(f.clients, f.orders, zap.NewNop())
	admin := f.addUser("admin", constants.RoleAdmin)
	ctx := ctxFor(admin)

	client, err := svc.Create(ctx, dto.CreateClientDTO{Name: "Анна"})
	require.NoError(t, err)
	order := f.addOrder(constants.StatusPending, nil, admin.ID)
	order.ClientID = &client.ID
	require.NoError(t, f.orders.UpdateInTx(ctx, nil, order))
	f.addOrder(constants.StatusPending, nil, admin.ID)

	detail, err := svc.GetByID(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, detail.RecentOrders, 1)
	assert.Equal(t, order.TicketCode, detail.RecentOrders[0].TicketCode)

	updated, err := svc.Update(ctx, client.ID, dto.UpdateClientDTO{Address: null.StringFrom("Calle Mayor 1")})
	require.NoError(t, err)
	assert.Equal(t, "Анна", updated.Name)
	assert.Equal(t, "Calle Mayor 1", *updated.Address)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClientService_TechnicianHasNoAccess(t *testing.T) {
	f := newFixture()
	svc := NewClientService(f.clients, f.orders, zap.NewNop())
	tech := f.addUser("carlos", constants.RoleTechnician)

	_, _, err := svc.List(ctxFor(tech), types.Filter{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
