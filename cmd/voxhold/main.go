package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fmueller/voxhold/internal/cli"
	"github.com/spf13/cobra"
)

// usageErrorMarkers are the cobra and pflag messages for malformed invocations.
var usageErrorMarkers = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"invalid argument",
	"flag needs an argument",
	"accepts ",
	"required flag",
}

func main() {
	root := cli.NewRootCmd()
	err := root.Execute()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "voxhold:", err)
	if isUsageError(err) {
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", helpTarget(root, os.Args[1:]))
	}
	os.Exit(1)
}

func isUsageError(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, marker := range usageErrorMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

// helpTarget names the deepest command the arguments resolve to.
func helpTarget(root *cobra.Command, args []string) string {
	if root == nil {
		return "voxhold"
	}
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return root.CommandPath()
	}
	if found, _, err := root.Find(args); err == nil && found != nil {
		return found.CommandPath()
	}
	return root.CommandPath()
}
