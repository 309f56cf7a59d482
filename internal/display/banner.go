// Package display provides the startup banner and human-readable size
// formatting for the batch summary.
package display

import (
	"fmt"
	"os"
)

// PrintBanner prints the ASCII art banner; colored magenta when enabled.
func PrintBanner(colored bool) {
	if colored {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` ____                    ____
|  _ \ _   _ _ __   __ _|  _ \ _ __ ___  ___ ___
| | | | | | | '_ \ / _`+"`"+` | |_) | '__/ _ \/ __/ __|
| |_| | |_| | | | | (_| |  __/| | |  __/\__ \__ \
|____/ \__, |_| |_|\__,_|_|   |_|  \___||___/___/
       |___/
`)
	if colored {
		fmt.Fprintln(os.Stdout, "\033[0m")
	}
}
