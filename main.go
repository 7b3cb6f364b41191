package main

import "github.com/vinay-billa-slu/ai-agent-blogger/cmd"

func main() {
	cmd.Execute()
}
