package main

import "github.com/eventor-ai/balloond/internal/cli"

func main() {
	cli.Execute()
}
