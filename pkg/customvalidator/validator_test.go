package customvalidator

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ServiceType string `validate:"required,service_type"`
	Status      string `validate:"omitempty,order_status"`
	Role        string `validate:"omitempty,role"`
	Email       string `validate:"omitempty,email"`
	Ticket      string `validate:"omitempty,ticket_code"`
	Key         string `validate:"omitempty,security_key"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestCustomValidations(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{ServiceType: "equipment_repair", Status: "closed", Role: "technician", Email: "a@b.co", Ticket: "FIXAB12CD34", Key: "ZX81QW22"}))
	assert.Error(t, v.Struct(sample{ServiceType: "painting"}))
	assert.Error(t, v.Struct(sample{ServiceType: "remote_assistance", Status: "archived"}))
	assert.Error(t, v.Struct(sample{ServiceType: "remote_assistance", Role: "owner"}))
	assert.Error(t, v.Struct(sample{ServiceType: "remote_assistance", Ticket: "fixab12cd34"}))
	assert.Error(t, v.Struct(sample{ServiceType: "remote_assistance", Key: "short"}))
}

type patchSample struct {
	Name null.String `validate:"omitempty,min=2"`
	Role null.String `validate:"omitempty,role"`
}

func TestNullTypesAreValidatedByValue(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(patchSample{}))
	assert.NoError(t, v.Struct(patchSample{Name: null.StringFrom("Анна"), Role: null.StringFrom("admin")}))
	assert.Error(t, v.Struct(patchSample{Name: null.StringFrom("A")}))
	assert.Error(t, v.Struct(patchSample{Role: null.StringFrom("boss")}))
}
