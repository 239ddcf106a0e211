package main

import (
	"github.com/nodecg/nodecg/cmd"
	"github.com/nodecg/nodecg/pkg/env"
	"github.com/nodecg/nodecg/pkg/log"
)

func main() {
	if err := env.Process(); err != nil {
		log.Fatal("environment failure", "error", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal("nodecg failure", "error", err)
	}
}
