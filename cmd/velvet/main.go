package main

import "github.com/velvetlabs/velvet/cmd/velvet/cli"

func main() {
	cli.Execute()
}
