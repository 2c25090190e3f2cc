package main

import "github.com/tarrenq/spawnkit/internal/cli"

func main() {
	cli.Execute()
}
