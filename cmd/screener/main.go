package main

import "github.com/vietddude/screener/internal/cli"

func main() {
	cli.Execute()
}
