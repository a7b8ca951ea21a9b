package main

import "github.com/jsphweid/mpusynth/cmd"

func main() {
	cmd.Execute()
}
