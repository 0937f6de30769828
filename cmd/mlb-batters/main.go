package main

import "github.com/pfrederiksen/mlb-batters/internal/cli"

func main() {
	cli.Execute()
}
