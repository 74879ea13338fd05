// ABOUTME: Entry point for the asistente-neae terminal client
// ABOUTME: Delegates to the cobra command tree

package main

import "github.com/ignacio-serrano-rodriguez/asistente-neae/cmd"

func main() {
	cmd.Execute()
}
