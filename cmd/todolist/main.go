package main

import (
	"os"

	"github.com/sandeepkv93/todolist/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
