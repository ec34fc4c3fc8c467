package main

import "github.com/HugoSbl/clipster/cmd"

func main() {
	cmd.Execute()
}
