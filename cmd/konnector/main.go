package main

import (
	"github.com/PaloAltoNetworks/konnector-cli/pkg/cli"
)

func main() {
	cli.Execute()
}
