package main

import "github.com/frahmantamala/ai-gateway/cmd"

func main() {
	cmd.Execute()
}
