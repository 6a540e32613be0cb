package main

import "github.com/osa911/portfolio/internal/cli"

func main() {
	cli.Execute()
}
