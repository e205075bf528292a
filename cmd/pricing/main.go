package main

import (
	"github.com/andrescamacho/acquisition-pricing/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
