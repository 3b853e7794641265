package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"charity-raffle/draw"
	"charity-raffle/model"
)

// runDrawCmd loads the sold tickets and runs the roulette from a terminal.
func runDrawCmd(ctx context.Context) {
	cfg := newCfg("env")

	client := newGatewayClient(cfg)

	sold, err := client.SoldNumbers(ctx)
	if err != nil {
		log.Fatalln("unable to load sold tickets", err)
	}

	if len(sold) == 0 {
		fmt.Println("no sold tickets yet, nothing to draw")
		return
	}

	duration := cfg.GetDuration("draw.duration")

	engine := draw.NewEngine(sold)
	engine.OnTick = func(secondsLeft int) {
		fmt.Printf("spinning... %d\n", secondsLeft)
	}
	engine.OnReveal = func(winner model.SoldTicket) {
		fmt.Printf("\nwinner: number %04d, %s (%s)\n", winner.Number, winner.Client.Name, winner.Client.Phone)
		fmt.Print("> ")
	}

	fmt.Printf("%d sold tickets loaded\n", len(sold))
	fmt.Println("commands: draw, reset, quit")

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "draw":
			if err := engine.StartDraw(duration); err != nil {
				fmt.Println("cannot start draw:", err)
			}

		case "reset":
			engine.Reset()
			fmt.Println("roulette reset")

		case "quit", "exit":
			engine.Reset()
			fmt.Println("bye")
			return
		}

		fmt.Print("> ")
	}

	engine.Reset()
}
