package main

import (
	"github.com/joho/godotenv"

	"restorag/internal/cli"
)

func main() {
	// API keys usually live in a local .env during development; a missing
	// file is fine.
	_ = godotenv.Load()

	cli.Execute()
}
