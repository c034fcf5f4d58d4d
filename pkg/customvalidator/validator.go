// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"fixtrack/pkg/constants"
)

var (
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex       = regexp.MustCompile(`^\+?[0-9\s\-()]{6,20}$`)
	ticketCodeRegex  = regexp.MustCompile(`^FIX[A-Z0-9]{8}$`)
	securityKeyRegex = regexp.MustCompile(`^[A-Z0-9]{8}$`)
)

// RegisterCustomValidations регистрирует правила предметной области в экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)

	rules := map[string]validator.Func{
		"email":        isGoodEmailFormat,
		"phone":        isPhoneNumber,
		"service_type": isServiceType,
		"order_status": isOrderStatus,
		"comment_type": isCommentType,
		"role":         isRole,
		"ticket_code":  isTicketCode,
		"security_key": isSecurityKey,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func isServiceType(fl validator.FieldLevel) bool {
	return constants.ServiceType(fl.Field().String()).IsValid()
}

// "closed" допускается как синоним completed.
func isOrderStatus(fl validator.FieldLevel) bool {
	_, ok := constants.ParseOrderStatus(fl.Field().String())
	return ok
}

func isCommentType(fl validator.FieldLevel) bool {
	return constants.CommentType(fl.Field().String()).IsValid()
}

func isRole(fl validator.FieldLevel) bool {
	return constants.Role(fl.Field().String()).IsValid()
}

func isTicketCode(fl validator.FieldLevel) bool {
	return ticketCodeRegex.MatchString(fl.Field().String())
}

func isSecurityKey(fl validator.FieldLevel) bool {
	return securityKeyRegex.MatchString(fl.Field().String())
}
