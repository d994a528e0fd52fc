// cubelock - a terminal Rubik's cube that opens on a secret sequence of turns.
package main

import (
	"github.com/SeamusWaldron/cubelock/internal/cli"
)

func main() {
	cli.Execute()
}
