package main

import "github.com/vruiz/matriculas/internal/cli"

func main() {
	cli.Execute()
}
