package main

import "legal-sentiment/internal/cli"

func main() {
	cli.Execute()
}
