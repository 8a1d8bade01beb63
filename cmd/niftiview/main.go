package main

import "niftiview/internal/cli"

func main() {
	cli.Execute()
}
