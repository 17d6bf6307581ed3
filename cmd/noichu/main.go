package main

import "github.com/tuannh/noichu/internal/cli"

func main() {
	cli.Execute()
}
