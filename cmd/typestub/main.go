package main

import "github.com/typestub/typestub/pkg/cli"

func main() {
	cli.Run()
}
