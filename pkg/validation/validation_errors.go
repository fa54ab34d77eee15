package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly Spanish labels
var FieldLabels = map[string]string{
	"FullName":   "Nombre y Apellido",
	"Phone":      "Teléfono",
	"Categories": "Categorías de Servicio",
	"Bio":        "Descripción",
	"Email":      "Correo electrónico",
	"Password":   "Contraseña",
	"Role":       "Rol",
}

// messageFor builds a readable message for a single failed rule.
func messageFor(fe validator.FieldError) string {
	label, ok := FieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", label)
	case "min":
		return fmt.Sprintf("%s requiere al menos %s elemento(s)", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s supera el máximo de %s", label, fe.Param())
	case "email":
		return fmt.Sprintf("%s no es válido", label)
	case "valid_name":
		return fmt.Sprintf("%s contiene caracteres no permitidos", label)
	case "valid_phone":
		return fmt.Sprintf("%s no es un teléfono válido", label)
	default:
		return fmt.Sprintf("%s no es válido (%s)", label, fe.Tag())
	}
}

// Describe flattens a validator error into one inline message.
func Describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, messageFor(fe))
	}
	return strings.Join(msgs, "; ")
}
