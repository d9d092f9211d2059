package expconfig

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Variable names the harness and the status report read.
const (
	KeyModelFolder        = "MODEL_FOLDER"
	KeyDecodingCheckpoint = "DECODING_CHECKPOINT"
	KeySeeds              = "SEEDS"
	KeyBeamSize           = "BEAM_SIZE"
	KeyEvalMetric         = "EVAL_METRIC"
	KeyMaxEpoch           = "MAX_EPOCH"
	KeyEvalInitEpoch      = "EVAL_INIT_EPOCH"
	KeyAlignedFolder      = "ALIGNED_FOLDER"
	KeyOracleFolder       = "ORACLE_FOLDER"
	KeyEmbFolder          = "EMB_FOLDER"
	KeyDataFolder         = "DATA_FOLDER"
)

// Vars is the immutable variable set defined by one configuration file.
// The zero value is an empty set.
type Vars struct {
	path   string
	values map[string]string
}

// NewVars copies values into a Vars. Keys and values are NFC normalized so
// that paths built from them compare byte for byte.
func NewVars(path string, values map[string]string) Vars {
	vals := make(map[string]string, len(values))
	for k, v := range values {
		vals[norm.NFC.String(k)] = norm.NFC.String(v)
	}
	return Vars{path: path, values: vals}
}

// Path returns the file the variables were read from.
func (v Vars) Path() string {
	return v.path
}

// Len returns the number of variables.
func (v Vars) Len() int {
	return len(v.values)
}

// Get returns the value of key and whether it is set.
func (v Vars) Get(key string) (string, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Value returns the value of key, or "" when unset.
func (v Vars) Value(key string) string {
	return v.values[key]
}

// Require returns the value of key or a *ConfigError when it is unset or empty.
func (v Vars) Require(key string) (string, error) {
	val, ok := v.values[key]
	if !ok || val == "" {
		return "", &ConfigError{
			Path:    v.path,
			Keys:    []string{key},
			Message: fmt.Sprintf("required variable %s is not defined", key),
		}
	}
	return val, nil
}

// Int parses key as a base-10 integer. ok is false when the key is unset.
func (v Vars) Int(key string) (n int, ok bool, err error) {
	val, ok := v.values[key]
	if !ok || strings.TrimSpace(val) == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, true, &ConfigError{
			Path:    v.path,
			Keys:    []string{key},
			Message: fmt.Sprintf("%s=%q is not an integer", key, val),
		}
	}
	return n, true, nil
}

// Seeds splits SEEDS on whitespace.
func (v Vars) Seeds() []string {
	return strings.Fields(v.values[KeySeeds])
}

// Keys returns all variable names in sorted order.
func (v Vars) Keys() []string {
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the variables.
func (v Vars) Map() map[string]string {
	out := make(map[string]string, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}
