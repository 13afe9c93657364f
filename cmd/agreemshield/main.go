// The agreemshield binary is the command line interface: local analysis and
// model training plus remote commands against a running API server.
package main

import "github.com/agreemshield/agreemshield/internal/interfaces/cli"

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	cli.Execute()
}
