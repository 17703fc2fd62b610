package main

import (
	"github.com/condakit/condameta/pkg/cli"
)

func main() {
	cli.Execute()
}
