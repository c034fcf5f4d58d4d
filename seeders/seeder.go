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

type staffMember struct {
	Username string
	Role     constants.Role
}

// демо-сотрудники для локальной разработки
var demoStaff = []staffMember{
	{Username: "secretary", Role: constants.RoleSecretary},
	{Username: "tech.ivanov", Role: constants.RoleTechnician},
	{Username: "tech.petrov", Role: constants.RoleTechnician},
}

// SeedDemoStaff добавляет секретаря и двух техников с общим паролем.
// Существующие логины пропускаются.
func SeedDemoStaff(ctx context.Context, userRepo repositories.UserRepositoryInterface, hasher utils.PasswordHasher, password string) (int, error) {
	log.Println("▶️  Создание демо-сотрудников...")

	hash, err := hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("не удалось захешировать пароль: %w", err)
	}

	created := 0
	for _, member := range demoStaff {
		exists, err := userRepo.ExistsByUsername(ctx, member.Username, 0)
		if err != nil {
			return created, fmt.Errorf("ошибка проверки логина '%s': %w", member.Username, err)
		}
		if exists {
			log.Printf("    - '%s' уже существует. Пропускаем.", member.Username)
			continue
		}
		user := &entities.User{
			Username:     member.Username,
			PasswordHash: hash,
			Role:         member.Role,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return created, fmt.Errorf("ошибка создания '%s': %w", member.Username, err)
		}
		created++
	}

	log.Printf("✅ Создано демо-сотрудников: %d", created)
	return created, nil
}
