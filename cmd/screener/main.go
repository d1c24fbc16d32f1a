package main

import "github.com/oldlogancap/logan-screener/cmd/screener/commands"

func main() {
	commands.Execute()
}
