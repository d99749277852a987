package main

import (
	"github.com/AzielCF/az-content/cmd"
)

func main() {
	cmd.Execute()
}
