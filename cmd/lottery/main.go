// Command lottery reduces compound lotteries and evaluates them under
// expected-utility theory.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/lottery/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own errors; anything else (flag parsing,
		// unknown commands) is printed here.
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
