package main

import (
	"github.com/sciseim/norg-suite/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
