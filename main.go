package main

import (
	"seatmap/cmd"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Start()
}
