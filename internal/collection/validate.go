package collection

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// validate knows the `notblank` tag, which rejects whitespace-only text the
// same way Blank does.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("registering notblank: %v", err))
	}
	return v
}

// Validate checks v against its `validate` struct tags. Failures wrap ErrRejected.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return nil
}

// ValidateAll validates every record and checks that ids are unique.
func ValidateAll[T Record](items []T) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if err := Validate(it); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		id := it.RecordID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("record %d: %w: duplicate id %q", i, ErrRejected, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
