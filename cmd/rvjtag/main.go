package main

import "github.com/OpenTraceLab/OpenTraceRV/cmd/rvjtag/cmd"

func main() {
	cmd.Execute()
}
