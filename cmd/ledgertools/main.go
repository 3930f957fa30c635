package main

import (
	"context"
	"os"

	"LedgerTools/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
