// Command travel tracks vaccination records and reminders and looks up
// destination health guidance and nearby travel clinics.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := newApp(os.Stdout)
	err := newRootCmd(a).Execute()
	// PersistentPostRun is skipped when a command fails.
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
