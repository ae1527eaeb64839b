package main

import "github.com/ajpbench/ajpbench-go-client/cmd"

func main() {
	cmd.Execute()
}
