package main

import "github.com/jhentschel/anntab/cmd"

func main() {
	cmd.Execute()
}
