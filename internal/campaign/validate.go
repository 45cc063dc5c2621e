package campaign

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	if len(cfg.Campaigns) == 0 {
		return ValidationError{"campaigns", "at least one campaign required"}
	}

	names := make(map[string]bool)
	outputs := make(map[string]bool)

	for i, c := range cfg.Campaigns {
		field := func(name string) string {
			return fmt.Sprintf("campaigns[%d].%s", i, name)
		}

		if strings.TrimSpace(c.Name) == "" {
			return ValidationError{field("name"), "required"}
		}
		if names[c.Name] {
			return ValidationError{field("name"), fmt.Sprintf("duplicate campaign %q", c.Name)}
		}
		names[c.Name] = true

		if len(c.Segments) == 0 {
			return ValidationError{field("segments"), "at least one segment required"}
		}
		for j, seg := range c.Segments {
			if !seg.Valid() {
				return ValidationError{fmt.Sprintf("%s[%d]", field("segments"), j), fmt.Sprintf("unknown segment %q", seg)}
			}
		}

		if len(c.CategoryMarkers) == 0 {
			return ValidationError{field("category_markers"), "at least one marker required"}
		}
		for j, m := range c.CategoryMarkers {
			// 빈 문자열은 모든 고객과 매칭되므로 금지
			if m == "" {
				return ValidationError{fmt.Sprintf("%s[%d]", field("category_markers"), j), "must not be empty"}
			}
		}

		if c.Output == "" {
			return ValidationError{field("output"), "required"}
		}
		if filepath.Base(c.Output) != c.Output {
			return ValidationError{field("output"), "must be a file name, not a path"}
		}
		if outputs[c.Output] {
			return ValidationError{field("output"), fmt.Sprintf("duplicate output %q", c.Output)}
		}
		outputs[c.Output] = true
	}

	return nil
}
