package main

import (
	"github.com/mchmarny/bendable/pkg/cli"
)

func main() {
	cli.Execute()
}
