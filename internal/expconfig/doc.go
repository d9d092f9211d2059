// Package expconfig reads experiment configurations.
//
// An experiment configuration is a sourceable shell file that assigns
// variables such as MODEL_FOLDER, SEEDS and DECODING_CHECKPOINT. The
// harness never interprets the file beyond the handful of variables it needs
// to locate output artifacts, so the package exposes a small immutable
// key/value view (Vars) and two ways of producing it:
//
//   - ShellSourcer runs bash in a clean environment, sources the file and
//     captures every variable it defined. This matches what the pipeline
//     scripts themselves see.
//   - StaticParser evaluates the file with the mvdan.cc/sh interpreter and
//     refuses to run commands or write files. It is used by tests and on
//     hosts without bash.
//
// Loaded variables are checked against an embedded CUE definition (see
// schema.cue). A missing or malformed required variable is reported as a
// *ConfigError.
package expconfig
