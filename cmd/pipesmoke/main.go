// Command pipesmoke runs the experiment pipeline smoke test.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pipesmoke/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && err.Error() != "" {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
