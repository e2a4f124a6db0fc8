package main

import "github.com/chriserin/ftc/cmd"

func main() {
	cmd.Execute()
}
