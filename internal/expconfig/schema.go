package expconfig

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Validate checks vars against the #Experiment definition.
// It returns a *ConfigError naming every offending variable.
func Validate(vars Vars) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile experiment schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Experiment"))

	value := def.Unify(ctx.Encode(vars.values))
	err := value.Validate(cue.Concrete(true), cue.All())
	if err == nil {
		return nil
	}

	keys, msgs := describeCUEErrors(err)
	return &ConfigError{
		Path:    vars.path,
		Keys:    keys,
		Message: strings.Join(msgs, "; "),
	}
}

// describeCUEErrors flattens a CUE error list into variable names and
// "NAME: problem" messages.
func describeCUEErrors(err error) ([]string, []string) {
	seen := make(map[string]bool)
	var keys, msgs []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		path := strings.Join(fieldPath(e.Path()), ".")
		if path == "" {
			msgs = append(msgs, msg)
			continue
		}
		if !seen[path] {
			seen[path] = true
			keys = append(keys, path)
		}
		msgs = append(msgs, path+": "+msg)
	}
	if len(msgs) == 0 {
		msgs = append(msgs, err.Error())
	}
	sort.Strings(keys)
	return keys, msgs
}

// fieldPath drops the definition selectors so only variable names remain.
func fieldPath(sels []string) []string {
	out := sels[:0:0]
	for _, s := range sels {
		if strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out
}
