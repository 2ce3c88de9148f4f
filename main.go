package main

import "github.com/KaramelBytes/statify-cli/cmd"

func main() {
	cmd.Execute()
}
