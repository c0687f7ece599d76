package main

import "github.com/xvierd/prep-cli/cmd"

func main() {
	cmd.Execute()
}
