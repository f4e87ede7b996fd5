// Megasrc inspects and edits MEGAlib cosima source files.
//
// Usage:
//
//	megasrc show crab.source                 # grid of all parameters
//	megasrc show crab.source --section source --plain
//	megasrc coord crab.source                # galactic and equatorial position
//	megasrc set-coord crab.source --l 10 --b -5 -o moved.source
//	megasrc convert crab.source -o crab.toml
package main

import (
	"os"

	"github.com/lixenwraith/cosima/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
