package main

import "github.com/erikh/nsbench/cmd"

func main() {
	cmd.Execute()
}
