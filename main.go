package main

import (
	"github.com/idvault/vault-agent/cmd"
)

func main() {
	cmd.Execute()
}
