package main

import "github.com/aalvaropc/teamsort/internal/cli"

func main() {
	cli.Execute()
}
