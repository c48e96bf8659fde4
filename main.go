package main

import "github.com/mohammade909/bsend/cmd"

func main() {
	cmd.Execute()
}
