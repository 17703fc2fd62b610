package main

import (
	"log"

	"github.com/condakit/condameta/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
