package main

import "github.com/pkositsyn/phonecheck/cmd"

func main() {
	cmd.Execute()
}
