// Package validation turns invalid input into *errors.AppError values.
//
// Struct tags are checked with go-playground/validator, using json tag names
// in messages. A struct whose only failures are missing values yields a
// MISSING_FIELD error naming the first such field; any other failure yields
// INVALID_INPUT with every field listed in the details.
//
//	type Upload struct {
//	    Audio []byte `json:"audio" validate:"nonempty"`
//	}
//	err := validation.Validate(u)
//
// Imperative checks collect into a Validator:
//
//	v := validation.New()
//	v.Required("path", cfg.Path).OneOf("format", cfg.Format, []string{"json", "console"})
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
