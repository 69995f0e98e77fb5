// cmd/create-nft/main.go
package main

import (
	"os"

	"narratives-nft/internal/adapters/in/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewCreateNFTCmd()))
}
