package cliconfig

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/getmockd/mockapi/pkg/logging"
)

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&c.ReadTimeout, validation.Min(0), validation.Max(3600)),
		validation.Field(&c.WriteTimeout, validation.Min(0), validation.Max(3600)),
		validation.Field(&c.ShutdownTimeout, validation.Min(0), validation.Max(300)),
		validation.Field(&c.LogLevel, validation.By(parses(func(s string) error {
			_, err := logging.ParseLevel(s)
			return err
		}))),
		validation.Field(&c.LogFormat, validation.By(parses(func(s string) error {
			_, err := logging.ParseFormat(s)
			return err
		}))),
	)
}

func parses(parse func(string) error) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return parse(s)
	}
}
