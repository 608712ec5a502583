package main

import (
	"github.com/sw33tLie/pmcontacts/cmd"
)

func main() {
	cmd.Execute()
}
