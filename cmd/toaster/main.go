package main

import "toaster/internal/cli"

func main() {
	cli.Execute()
}
