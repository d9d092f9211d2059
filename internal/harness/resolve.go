package harness

import "fmt"

// ResolveConfig selects the configuration for a run.
//
// No argument selects defaultConfig and enables test mode. One argument is a
// caller-provided configuration; test mode stays off and the caller is
// responsible for real data. More arguments are rejected.
func ResolveConfig(args []string, defaultConfig string) (Selection, error) {
	switch len(args) {
	case 0:
		if defaultConfig == "" {
			return Selection{}, &ConfigError{Err: fmt.Errorf("no default configuration")}
		}
		return Selection{ConfigPath: defaultConfig, TestMode: true}, nil
	case 1:
		if args[0] == "" {
			return Selection{}, &ConfigError{Err: fmt.Errorf("empty configuration path")}
		}
		return Selection{ConfigPath: args[0]}, nil
	default:
		return Selection{}, &ConfigError{Err: fmt.Errorf("expected at most one configuration, got %d", len(args))}
	}
}
