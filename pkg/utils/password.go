package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"fixtrack/pkg/config"
)

// PasswordHasher хеширует и сверяет пароли. Реализация по умолчанию на bcrypt.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(bytes), nil
}

func (h *BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// ValidatePasswordStrength возвращает список нарушенных правил; пустой список значит пароль подходит.
func ValidatePasswordStrength(policy config.PasswordPolicyConfig, password string) []string {
	var problems []string
	if len([]rune(password)) < policy.MinLength {
		problems = append(problems, fmt.Sprintf("пароль должен содержать не менее %d символов", policy.MinLength))
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	if policy.RequireLowercase && !lower {
		problems = append(problems, "пароль должен содержать строчную букву")
	}
	if policy.RequireUppercase && !upper {
		problems = append(problems, "пароль должен содержать заглавную букву")
	}
	if policy.RequireNumbers && !digit {
		problems = append(problems, "пароль должен содержать цифру")
	}
	if policy.RequireSymbols && !symbol {
		problems = append(problems, "пароль должен содержать специальный символ")
	}
	return problems
}

const (
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars  = "23456789"
	symbolChars = "!@#$%*?"
)

// GenerateTemporaryPassword выдаёт пароль, в котором есть символ каждого класса.
func GenerateTemporaryPassword(length int) (string, error) {
	if length < 4 {
		length = 4
	}
	classes := []string{lowerChars, upperChars, digitChars, symbolChars}
	all := strings.Join(classes, "")

	out := make([]byte, 0, length)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// перемешиваем, чтобы классы не стояли на фиксированных позициях
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func randomChar(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, fmt.Errorf("не удалось получить случайное число: %w", err)
	}
	return alphabet[n.Int64()], nil
}
