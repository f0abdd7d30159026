package main

import "solforge/cmd"

func main() {
	cmd.Execute()
}
