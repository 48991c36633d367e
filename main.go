package main

import "github.com/scgolang/wingsync/cmd"

func main() {
	cmd.Execute()
}
