package main

import "Sanca/pkg/cli"

func main() {
	cli.Execute()
}
