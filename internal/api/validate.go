package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput validates a request payload locally so obviously broken
// input surfaces as ErrValidation without a round trip.
func checkInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid input: %w", err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		fields[name] = append(fields[name], fmt.Sprintf("failed %q validation", fe.Tag()))
	}
	return &APIError{Status: 400, Message: "validation failed", Fields: fields}
}
