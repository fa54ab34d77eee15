package validation_test

import (
	"testing"

	"go-servicios-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type nameForm struct {
	FullName string `validate:"required,valid_name"`
	Phone    string `validate:"required,valid_phone"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func TestValidName(t *testing.T) {
	v := newValidator()

	valid := []string{
		"Juan Perez",
		"María José Núñez",
		"O'Brien-Smith",
		"J. R. Gutiérrez",
	}
	for _, name := range valid {
		err := v.Struct(nameForm{FullName: name, Phone: "+549112345678"})
		assert.NoError(t, err, "name %q should be accepted", name)
	}

	invalid := []string{
		"Juan <script>",
		"Robert; DROP TABLE",
		"user@example.com",
		"1234",
	}
	for _, name := range invalid {
		err := v.Struct(nameForm{FullName: name, Phone: "+549112345678"})
		assert.Error(t, err, "name %q should be rejected", name)
	}
}

func TestValidPhone(t *testing.T) {
	v := newValidator()

	valid := []string{"+549112345678", "1123456789", "5491100000000"}
	for _, phone := range valid {
		err := v.Struct(nameForm{FullName: "Juan Perez", Phone: phone})
		assert.NoError(t, err, "phone %q should be accepted", phone)
	}

	invalid := []string{"123", "+54 911 2345", "phone", "+123456789012345678"}
	for _, phone := range invalid {
		err := v.Struct(nameForm{FullName: "Juan Perez", Phone: phone})
		assert.Error(t, err, "phone %q should be rejected", phone)
	}
}

func TestDescribeUsesFieldLabels(t *testing.T) {
	v := newValidator()

	err := v.Struct(nameForm{FullName: "", Phone: "bad"})
	assert.Error(t, err)

	msg := validation.Describe(err)
	assert.Contains(t, msg, "Nombre y Apellido es obligatorio")
	assert.Contains(t, msg, "Teléfono no es un teléfono válido")
}
