package main

import "github.com/OpenTraceLab/OpenTraceCAM/cmd/otcam/cmd"

func main() {
	cmd.Execute()
}
