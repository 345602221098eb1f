// Command costwatch detects anomalies in AWS daily cost data.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/costwatch/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
