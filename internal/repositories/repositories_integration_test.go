package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixtrack/internal/entities"
	"fixtrack/pkg/constants"
	"fixtrack/pkg/database/migrations"
	"fixtrack/pkg/database/postgresql"
	apperrors "fixtrack/pkg/errors"
)

// Тесты работают с настоящей базой, адрес которой задаётся TEST_DATABASE_URL.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}

	ctx := context.Background()
	require.NoError(t, migrations.Up(ctx, dsn))

	pool, err := postgresql.ConnectDB(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE order_attachments, order_comments, order_updates, orders, clients, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func createTestUser(t *testing.T, repo UserRepositoryInterface, username string, role constants.Role) *entities.User {
	t.Helper()
	user := &entities.User{Username: username, PasswordHash: "hash", Role: role, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(pool, zap.NewNop())

	admin := createTestUser(t, repo, "admin", constants.RoleAdmin)
	assert.NotZero(t, admin.ID)

	err := repo.Create(ctx, &entities.User{Username: "admin", PasswordHash: "x", Role: constants.RoleAdmin, IsActive: true})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	found, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	exists, err := repo.ExistsByUsername(ctx, "admin", admin.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "new-hash", true))
	found, err = repo.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)
	assert.True(t, found.MustChangePassword)
}

func TestOrderLifecycle_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	logger := zap.NewNop()

	users := NewUserRepository(pool, logger)
	orders := NewOrderRepository(pool, logger)
	history := NewOrderUpdateRepository(pool, logger)
	comments := NewOrderCommentRepository(pool, logger)
	reports := NewReportRepository(pool, logger)
	txManager := NewTxManager(pool)

	secretary := createTestUser(t, users, "sec", constants.RoleSecretary)
	tech := createTestUser(t, users, "tech", constants.RoleTechnician)

	order := &entities.Order{
		TicketCode:         "FIXAAAA1111",
		SecurityKey:        "KEY12345",
		ClientName:         "Иван",
		ServiceType:        constants.ServiceEquipmentRepair,
		ProblemDescription: "Не включается ноутбук",
		Status:             constants.StatusPending,
		Accessories:        []string{"зарядка"},
		CreatedBy:          secretary.ID,
	}
	require.NoError(t, txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return orders.CreateInTx(ctx, tx, order)
	}))

	taken, err := orders.CodesExistInTx(ctx, nil, "FIXAAAA1111", "OTHERKEY")
	require.NoError(t, err)
	assert.True(t, taken)

	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		locked, err := orders.FindByIDForUpdateInTx(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		old := locked.Status
		locked.AssignedTechnicianID = &tech.ID
		locked.Status = constants.StatusCompleted
		now := time.Now()
		locked.ClosedAt = &now
		if err := orders.UpdateInTx(ctx, tx, locked); err != nil {
			return err
		}
		return history.CreateInTx(ctx, tx, &entities.OrderUpdate{
			OrderID: locked.ID, OldStatus: old, NewStatus: locked.Status, ChangedBy: tech.ID,
		})
	})
	require.NoError(t, err)

	loaded, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, loaded.Status)
	assert.Equal(t, []string{"зарядка"}, loaded.Accessories)
	require.NotNil(t, loaded.TechnicianUsername)
	assert.Equal(t, "tech", *loaded.TechnicianUsername)

	public, err := orders.FindByTicketAndKey(ctx, "FIXAAAA1111", "KEY12345")
	require.NoError(t, err)
	assert.Equal(t, order.ID, public.ID)
	_, err = orders.FindByTicketAndKey(ctx, "FIXAAAA1111", "WRONGKEY")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updates, err := history.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, constants.StatusPending, updates[0].OldStatus)

	require.NoError(t, comments.CreateInTx(ctx, nil, &entities.OrderComment{
		OrderID: order.ID, UserID: tech.ID, CommentType: constants.CommentTechnical, Content: "Заменён разъём",
	}))
	clientComments, err := comments.ListByOrder(ctx, order.ID, constants.CommentClient)
	require.NoError(t, err)
	assert.Empty(t, clientComments)

	list, total, err := orders.List(ctx, entities.OrderFilter{Statuses: constants.StatusFilterValues("closed"), Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Len(t, list, 1)

	distribution, err := reports.StatusDistribution(ctx, entities.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, []entities.StatusCount{{Status: "completed", Count: 1}}, distribution)

	perf, err := reports.TechnicianPerformance(ctx, entities.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, uint64(1), perf[0].Assigned)
	assert.Equal(t, uint64(1), perf[0].Completed)
}
