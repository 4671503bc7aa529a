package main

import "github.com/dagnet/noded/internal/cli"

func main() {
	cli.Execute()
}
