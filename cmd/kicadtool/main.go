// Command kicadtool drives the schematic parser and CADSTAR PCB
// importer from the command line.
package main

import "github.com/kicad-go/eda-importers/cmd/kicadtool/cmd"

func main() {
	cmd.Execute()
}
