package expconfig

import (
	"fmt"
	"strings"
)

// ConfigError reports a configuration that cannot drive a run: unreadable,
// failed to source, or missing a required variable.
type ConfigError struct {
	Path    string   // configuration file
	Keys    []string // offending variables, if known
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
