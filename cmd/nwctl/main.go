package main

import "github.com/netwatch/netwatchd/cmd/nwctl/cmd"

func main() {
	cmd.Execute()
}
