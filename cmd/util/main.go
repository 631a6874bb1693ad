package main

import (
	"github.com/replicanet/replica/cmd/util/cmd"
)

func main() {
	cmd.Execute()
}
