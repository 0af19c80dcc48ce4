// watchpost supervises a local model server and its public tunnel.
package main

import (
	"os"

	"github.com/watchpost/watchpost/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
