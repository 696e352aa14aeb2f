// Command hashbench runs the hash-set benchmarking workbench: it builds
// one or more hash-set engines, drives them through grow/probe/churn/
// overwrite workloads, and writes CSV summaries per engine.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rphmeier/hashset-bench/cmd/hashbench/cli"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hashbench: failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cli.Execute(logger.Sugar()); err != nil {
		logger.Sugar().Errorw("hashbench failed", "error", err)
		os.Exit(1)
	}
}
