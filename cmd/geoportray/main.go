package main

import "geoportray/internal/cli"

func main() {
	cli.Execute()
}
