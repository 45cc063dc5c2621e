package main

import (
	"os"

	"github.com/wonny/rfm/backend/cmd/rfm/commands"
)

// main is the entry point for the RFM CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/rfm [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
