package main

import "github.com/fakeyudi/studylapse/cmd"

func main() {
	cmd.Execute()
}
