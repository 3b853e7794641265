package main

import (
	"charity-raffle/cmd"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Start()
}
