package main

import (
	"os"

	"interview-backend/internal/bootstrap"
	"interview-backend/internal/llm"
	"interview-backend/internal/shared/config"
)

func main() {
	oracle := func() (llm.Client, error) {
		return bootstrap.BuildOracle(config.Load())
	}
	if err := newRootCmd(oracle).Execute(); err != nil {
		os.Exit(1)
	}
}
