package main

import "github.com/davarch/hudson-remote/cmd/hudson/cli"

func main() {
	cli.Execute()
}
