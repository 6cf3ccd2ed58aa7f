// Command guardrail generates client, server, and model source code from
// OpenAPI specification documents.
package main

import (
	"os"

	"github.com/lorenzotomasini/guardrail/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
