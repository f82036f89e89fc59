package main

import "github.com/linemk/storefront/cmd/storefront/commands"

func main() {
	commands.Execute()
}
