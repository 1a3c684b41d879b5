// Package validation validates configuration sections and API input.
//
// Struct tag validation uses go-playground/validator; field names in
// messages come from the json or mapstructure tag so they match what the
// user wrote in the request body or config file. Failures are returned as
// INVALID_INPUT AppErrors carrying per-field details.
//
// # Struct Tag Validation
//
//	type StoreConfig struct {
//	    Path string `mapstructure:"path" validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Required("path", req.Path).
//	    MaxLen("path", req.Path, validation.MaxPathLen).
//	    Err()
package validation
