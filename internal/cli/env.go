package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/roach88/pipesmoke/internal/report"
	"github.com/roach88/pipesmoke/internal/settings"
)

// loadSettings reads the settings named by --settings, or the default file
// when it exists.
func loadSettings(opts *RootOptions) (settings.Settings, error) {
	path, required := opts.Settings, true
	if path == "" {
		path, required = settings.DefaultFile, false
	}
	s, err := settings.Load(path, required)
	if err != nil {
		return settings.Settings{}, WrapExitError(ExitCommandError, "failed to load settings", err)
	}
	return s, nil
}

// newLogger builds the diagnostic logger. Debug records need --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func colorMode(opts *RootOptions) report.ColorMode {
	mode, err := report.ParseColorMode(opts.Color)
	if err != nil {
		return report.ColorAuto
	}
	return mode
}

// terminalWidth returns the column count of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
