package beer

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the beer-specific rules
// registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("beerstyle", func(fl validator.FieldLevel) bool {
			return Style(fl.Field().String()).Valid()
		})
	})

	return validate
}

// ValidateConfig checks that the config can build a client.
func ValidateConfig(config *Config) error {
	if config == nil {
		return ErrConfigRequired
	}

	err := Validator().Struct(config)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if config.ClientID != "" && config.TokenURL == "" {
		return ErrTokenURLRequired
	}

	return nil
}

// ValidateBeer checks the client-writable fields of a beer.
func ValidateBeer(beer *Beer) error {
	if beer == nil {
		return ErrBeerRequired
	}

	err := Validator().Struct(beer)
	if err != nil {
		return fmt.Errorf("invalid beer: %w", err)
	}

	if beer.Price.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativePrice, beer.Price)
	}

	return nil
}
