package main

import (
	"os"

	"github.com/joelkehle/topsis-agency/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
