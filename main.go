package main

import "calcli/cmd"

func main() {
	cmd.Execute()
}
