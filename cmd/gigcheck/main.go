package main

import "github.com/theakshaypant/gigcheck/cmd/gigcheck/cmd"

func main() {
	cmd.Execute()
}
