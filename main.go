package main

import (
	"os"

	"github.com/cruzluna/reclaim-cli/cmd"
	"github.com/cruzluna/reclaim-cli/internal/api"
	"github.com/cruzluna/reclaim-cli/internal/clierr"
)

// Populated by the linker at release time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	api.UserAgent = "reclaim-cli/" + version

	if err := cmd.Execute(); err != nil {
		clierr.Fprint(os.Stderr, err)
		os.Exit(2)
	}
}
