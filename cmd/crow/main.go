package main

import "github.com/crow-router/crow/internal/adapters/cli"

func main() {
	cli.Execute()
}
