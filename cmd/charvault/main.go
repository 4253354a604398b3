package main

import "github.com/mcoot/charvault/internal/cli"

func main() {
	cli.Execute()
}
