// Command blocks manages repeatable content blocks.
package main

import "github.com/mesh-intelligence/blocks/internal/cli"

func main() {
	cli.Execute()
}
