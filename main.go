package main

import "github.com/pibulus/hexbloop-sub002/cmd"

func main() {
	cmd.Execute()
}
