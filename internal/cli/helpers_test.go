package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roach88/pipesmoke/internal/testutil"
)

const smokeConfig = `MODEL_FOLDER=DATA/wiki25/models/smoke
DECODING_CHECKPOINT=checkpoint_best.pt
SEEDS="42"
MAX_EPOCH=2
EVAL_INIT_EPOCH=1
EVAL_METRIC=smatch
`

const smokeArtifact = "DATA/wiki25/models/smoke-seed42/beam10/valid_checkpoint_best.pt.wiki.smatch"

// smokeProject lays out a project root with a settings file that uses the
// static config reader and fake collaborator names.
func smokeProject(t *testing.T) (root, settingsPath string) {
	t.Helper()
	root = t.TempDir()
	settingsPath = filepath.Join(root, "pipesmoke.yaml")
	testutil.WriteTree(t, root, map[string]string{
		"configs/wiki25-smoke.sh": smokeConfig,
		"pipesmoke.yaml": `default_config: configs/wiki25-smoke.sh
work_dir: DATA/wiki25
mockup: [mockup]
runner: [pipeline]
sourcer: static
`,
	})
	return root, settingsPath
}

func execute(cmd *cobra.Command, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return stdout, stderr, err
}
