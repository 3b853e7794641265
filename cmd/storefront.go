package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/message"

	"charity-raffle/checkout"
	"charity-raffle/common/constant"
	"charity-raffle/model"
	"charity-raffle/raffle"
)

// runStorefrontCmd drives the buyer flow from a terminal: browse the 5000
// numbers page by page, build a selection, then run the PIX checkout dialog
// against the backend.
func runStorefrontCmd(ctx context.Context) {
	cfg := newCfg("env")

	client := newGatewayClient(cfg)

	unavailable, err := client.UnavailableNumbers(ctx)
	if err != nil {
		log.Fatalln("unable to load unavailable numbers", err)
	}

	pool := raffle.NewPool(unavailable)
	selection := raffle.NewSelection(pool)
	browser := raffle.NewBrowser(pool, constant.DefaultPageSize)

	controller := checkout.NewController(client, selection, newValidate())
	if interval := cfg.GetDuration("checkout.poll_interval"); interval > 0 {
		controller.PollInterval = interval
	}
	controller.OnSettled = func() {
		fmt.Println("\npayment confirmed, good luck!")
		fmt.Print("> ")
	}

	printer := newBrlPrinter()

	fmt.Printf("charity raffle storefront, %d numbers at %s each\n",
		pool.Total(), formatBrl(printer, constant.TicketPriceCents))
	fmt.Println("commands: page, next, prev, goto N, filter on|off, toggle N, random K, clear, selection, buyers, checkout, quit")

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			fmt.Print("> ")
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			controller.Close()
			fmt.Println("bye")
			return

		case "page":
			printPage(browser, selection)

		case "next":
			browser.Next()
			printPage(browser, selection)

		case "prev":
			browser.Prev()
			printPage(browser, selection)

		case "goto":
			if len(fields) < 2 {
				fmt.Println("usage: goto N")
				break
			}
			page, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("not a page number:", fields[1])
				break
			}
			browser.SetPage(page)
			printPage(browser, selection)

		case "filter":
			if len(fields) < 2 || (fields[1] != "on" && fields[1] != "off") {
				fmt.Println("usage: filter on|off")
				break
			}
			browser.SetAvailableOnly(fields[1] == "on")
			printPage(browser, selection)

		case "toggle":
			if len(fields) < 2 {
				fmt.Println("usage: toggle N")
				break
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("not a ticket number:", fields[1])
				break
			}
			selection.Toggle(int32(n))
			printSelection(selection, printer)

		case "random":
			if len(fields) < 2 {
				fmt.Println("usage: random K")
				break
			}
			k, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("not a quantity:", fields[1])
				break
			}
			picked := selection.RandomPick(k)
			fmt.Println("picked:", picked)
			printSelection(selection, printer)

		case "clear":
			selection.Clear()
			fmt.Println("selection cleared")

		case "selection":
			printSelection(selection, printer)

		case "buyers":
			buyers, err := client.RecentBuyers(ctx)
			if err != nil {
				fmt.Println("unable to load recent buyers:", err)
				break
			}
			for _, b := range buyers {
				when := b.CreatedAt
				if t, err := time.Parse(time.RFC3339, b.CreatedAt); err == nil {
					when = timeAgo(time.Now(), t)
				}
				fmt.Printf("  %s bought %v %s\n", b.Name, b.Numbers, when)
			}

		case "checkout":
			runCheckoutDialog(ctx, controller, selection, scanner, printer)

		default:
			fmt.Println("unknown command:", fields[0])
		}

		fmt.Print("> ")
	}

	controller.Close()

	if err := scanner.Err(); err != nil {
		slog.ErrorContext(ctx, "stdin read failed", slog.Any(constant.LogFieldErr, err))
	}
}

func runCheckoutDialog(
	ctx context.Context,
	controller *checkout.Controller,
	selection *raffle.Selection,
	scanner *bufio.Scanner,
	printer *message.Printer,
) {
	if err := controller.Open(); err != nil {
		fmt.Println("cannot open checkout:", err)
		return
	}

	fmt.Printf("buying %d numbers for %s\n", selection.Count(), formatBrl(printer, selection.TotalCents()))

	buyer := model.Buyer{}
	for _, prompt := range []struct {
		label string
		dst   *string
	}{
		{"full name", &buyer.FullName},
		{"cpf", &buyer.Cpf},
		{"phone", &buyer.Phone},
	} {
		fmt.Printf("%s: ", prompt.label)
		if !scanner.Scan() {
			controller.Close()
			return
		}
		*prompt.dst = strings.TrimSpace(scanner.Text())
	}

	if err := controller.SubmitBuyer(ctx, buyer); err != nil {
		fmt.Println("checkout failed:", err)
		controller.Close()
		return
	}

	tx, ok := controller.Transaction()
	if !ok {
		controller.Close()
		return
	}

	fmt.Println("scan the QR code or paste the code below, it is checked every few seconds:")
	fmt.Println(tx.CopyPasteCode)
	fmt.Println("type 'paid' to check now, 'cancel' to abort")

	for controller.Step() == checkout.StepPayment {
		fmt.Print("pix> ")
		if !scanner.Scan() {
			controller.Close()
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "paid":
			settled, err := controller.CheckNow(ctx)
			if err != nil {
				fmt.Println("status check failed:", err)
				continue
			}
			if !settled {
				fmt.Println("not settled yet, keep the app open")
			}
		case "cancel":
			controller.Close()
			fmt.Println("checkout cancelled")
			return
		}
	}

	if controller.Step() == checkout.StepSuccess {
		fmt.Println("your numbers:", selection.Numbers())
		controller.Close()
	}
}

func printPage(browser *raffle.Browser, selection *raffle.Selection) {
	fmt.Printf("page %d/%d (available only: %v)\n", browser.PageIndex(), browser.TotalPages(), browser.AvailableOnly())

	for i, n := range browser.Page() {
		marker := " "
		switch selection.Status(n) {
		case model.TicketTaken:
			marker = "x"
		case model.TicketSelected:
			marker = "*"
		}

		fmt.Printf("%s%04d ", marker, n)
		if (i+1)%10 == 0 {
			fmt.Println()
		}
	}
	fmt.Println()
}

func printSelection(selection *raffle.Selection, printer *message.Printer) {
	fmt.Printf("selected %d numbers %v, total %s\n",
		selection.Count(), selection.Numbers(), formatBrl(printer, selection.TotalCents()))
}

func formatBrl(printer *message.Printer, cents int64) string {
	return printer.Sprintf("R$ %.2f", float64(cents)/100)
}

// timeAgo renders a purchase timestamp relative to now, in pt-BR.
func timeAgo(now, t time.Time) string {
	elapsed := now.Sub(t)

	if elapsed < time.Minute {
		return "alguns segundos atrás"
	}

	if minutes := int(elapsed.Minutes()); minutes < 60 {
		if minutes == 1 {
			return "1 minuto atrás"
		}
		return fmt.Sprintf("%d minutos atrás", minutes)
	}

	if hours := int(elapsed.Hours()); hours < 24 {
		if hours == 1 {
			return "1 hora atrás"
		}
		return fmt.Sprintf("%d horas atrás", hours)
	}

	days := int(elapsed.Hours() / 24)
	if days == 1 {
		return "1 dia atrás"
	}
	return fmt.Sprintf("%d dias atrás", days)
}
