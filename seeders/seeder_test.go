package seeders

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
)

type memUsers struct {
	users []*entities.User
}

func (m *memUsers) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUsers) FindByIDInTx(ctx context.Context, _ pgx.Tx, id uint64) (*entities.User, error) {
	return m.FindByID(ctx, id)
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUsers) ExistsByUsername(ctx context.Context, username string, _ uint64) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *memUsers) List(context.Context, repositories.UserListFilter) ([]entities.User, uint64, error) {
	return nil, 0, nil
}

func (m *memUsers) Create(_ context.Context, user *entities.User) error {
	user.ID = uint64(len(m.users) + 1)
	m.users = append(m.users, user)
	return nil
}

func (m *memUsers) Update(context.Context, *entities.User) error { return nil }

func (m *memUsers) UpdatePassword(context.Context, uint64, string, bool) error { return nil }

func (m *memUsers) CountByRole(_ context.Context, role string) (uint64, error) {
	var n uint64
	for _, u := range m.users {
		if u.Role.String() == role {
			n++
		}
	}
	return n, nil
}

type prefixHasher struct{}

func (prefixHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (prefixHasher) Verify(plain, digest string) bool  { return digest == "h:"+plain }

func TestSeedAdmin(t *testing.T) {
	repo := &memUsers{}

	created, err := SeedAdmin(context.Background(), repo, prefixHasher{}, "admin", "Admin@123")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, repo.users, 1)

	admin := repo.users[0]
	assert.Equal(t, constants.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, admin.MustChangePassword)
	assert.Equal(t, "h:Admin@123", admin.PasswordHash)

	created, err = SeedAdmin(context.Background(), repo, prefixHasher{}, "admin2", "Admin@123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.users, 1)
}

func TestSeedDemoStaff(t *testing.T) {
	repo := &memUsers{}
	require.NoError(t, repo.Create(context.Background(), &entities.User{Username: "secretary", Role: constants.RoleSecretary}))

	created, err := SeedDemoStaff(context.Background(), repo, prefixHasher{}, "Demo@1234")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	techs, _ := repo.CountByRole(context.Background(), constants.RoleTechnician.String())
	assert.EqualValues(t, 2, techs)

	created, err = SeedDemoStaff(context.Background(), repo, prefixHasher{}, "Demo@1234")
	require.NoError(t, err)
	assert.Zero(t, created)
}
