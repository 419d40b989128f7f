package main

import "github.com/tendant/simple-access-slim/internal/cli"

func main() {
	cli.Execute()
}
