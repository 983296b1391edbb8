// The tempus command runs scenario files, inspects recorded runs, and
// scaffolds new models. See `tempus --help` for the full surface.
package main

import "github.com/tempuslab/tempus/cmd"

func main() {
	cmd.Execute()
}
