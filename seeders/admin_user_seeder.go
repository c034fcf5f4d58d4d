// Файл: seeders/admin_user_seeder.go
package seeders

import (
	"context"
	"fmt"
	"log"

	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/constants"
	"fixtrack/pkg/utils"
)

// SeedAdmin создаёт первого администратора, если в системе ещё нет ни одного.
// Пароль нужно сменить при первом входе.
func SeedAdmin(ctx context.Context, userRepo repositories.UserRepositoryInterface, hasher utils.PasswordHasher, username, password string) (bool, error) {
	log.Println("  - Проверка наличия администратора...")

	count, err := userRepo.CountByRole(ctx, constants.RoleAdmin.String())
	if err != nil {
		return false, fmt.Errorf("ошибка при подсчёте администраторов: %w", err)
	}
	if count > 0 {
		log.Println("    - Администратор уже существует. Пропускаем.")
		return false, nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("не удалось захешировать пароль: %w", err)
	}

	admin := &entities.User{
		Username:           username,
		PasswordHash:       hash,
		Role:               constants.RoleAdmin,
		IsActive:           true,
		MustChangePassword: true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("ошибка при создании администратора: %w", err)
	}

	log.Printf("    - Администратор '%s' создан (id=%d).", admin.Username, admin.ID)
	return true, nil
}
