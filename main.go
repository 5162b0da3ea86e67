package main

import "github.com/fakeyudi/repcount/cmd"

func main() {
	cmd.Execute()
}
