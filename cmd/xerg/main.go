// Command xerg is the CLI entrypoint: it builds the root cobra command
// and translates its result into a process exit code.
package main

import (
	"os"

	"github.com/xerg-dev/xerg/internal/cmd"
)

func main() {
	root := cmd.NewRootCommand()
	err := root.Execute()
	os.Exit(cmd.ExitCode(err))
}
