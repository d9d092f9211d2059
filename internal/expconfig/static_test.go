package expconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticParser_Assignments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "plain",
			input: "TASK_TAG=wiki25\n",
			want:  map[string]string{"TASK_TAG": "wiki25"},
		},
		{
			name:  "export and comments",
			input: "# experiment\nexport SEEDS=\"42 43\"  # two seeds\n\n",
			want:  map[string]string{"SEEDS": "42 43"},
		},
		{
			name:  "single quotes are literal",
			input: "NAME='${NOPE} x'\n",
			want:  map[string]string{"NAME": "${NOPE} x"},
		},
		{
			name: "expansion of earlier names",
			input: "TASK_TAG=wiki25\n" +
				"MODEL_FOLDER=DATA/$TASK_TAG/models/${TASK_TAG}_bart\n",
			want: map[string]string{
				"TASK_TAG":     "wiki25",
				"MODEL_FOLDER": "DATA/wiki25/models/wiki25_bart",
			},
		},
		{
			name:  "unset names expand to empty",
			input: "A=${PIPESMOKE_MISSING}x\n",
			want:  map[string]string{"A": "x"},
		},
		{
			name:  "default expansion",
			input: "BEAM_SIZE=${PIPESMOKE_BEAM:-10}\n",
			want:  map[string]string{"BEAM_SIZE": "10"},
		},
		{
			name:  "several assignments on one line",
			input: "A=x;B=y\n",
			want:  map[string]string{"A": "x", "B": "y"},
		},
		{
			name:  "escaped dollar in double quotes",
			input: `A="cost \$5"` + "\n",
			want:  map[string]string{"A": "cost $5"},
		},
		{
			name:  "mixed segments",
			input: "B=pre\"fix\"'-'post\n",
			want:  map[string]string{"B": "prefix-post"},
		},
		{
			name:  "conditionals are evaluated",
			input: "if [ -z \"$X\" ]; then\nA=1\nelse\nA=2\nfi\n",
			want:  map[string]string{"A": "1"},
		},
		{
			name:  "hash inside word",
			input: "A=x#y\n",
			want:  map[string]string{"A": "x#y"},
		},
		{
			name:  "later assignment wins",
			input: "A=1\nA=2\n",
			want:  map[string]string{"A": "2"},
		},
		{
			name:  "unset removes a name",
			input: "A=1\nB=2\nunset A\n",
			want:  map[string]string{"B": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.sh", tt.input)

			vars, err := StaticParser{Dir: dir}.Source(context.Background(), "config.sh")
			require.NoError(t, err)
			assert.Equal(t, tt.want, vars.Map())
		})
	}
}

func TestStaticParser_RefusesCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "command substitution", input: "STAMP=$(date)\n"},
		{name: "external command", input: "A=1\ntouch marker\n"},
		{name: "redirect to file", input: "A=1\nprintf x > out.txt\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.sh", tt.input)

			_, err := StaticParser{Dir: dir}.Source(context.Background(), "config.sh")
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Contains(t, err.Error(), "cannot evaluate file")
			assert.NoFileExists(t, dir+"/out.txt")
			assert.NoFileExists(t, dir+"/marker")
		})
	}
}

func TestStaticParser_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.sh", "A=1\nB=\"open\n")

	_, err := StaticParser{Dir: dir}.Source(context.Background(), "config.sh")
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "cannot parse file")
	assert.Contains(t, err.Error(), "config.sh:2")
}
