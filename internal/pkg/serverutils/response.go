package serverutils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Response[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Message: message,
		Data:    data,
	}
}

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts the first failure
// into a client-facing validation error.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return NewValidationError(fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag()))
		}
		return NewValidationError(err.Error())
	}
	return nil
}
