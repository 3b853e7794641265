package cmd

import (
	"context"
	"github.com/spf13/cobra"
	"log"
	"log/slog"
	"os"
	"os/signal"
)

func Start() {
	cfg := newCfg("env")
	slog.SetLogLoggerLevel(slog.Level(cfg.GetInt("log.level")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{}
	cmd := []*cobra.Command{
		{
			Use:   "serve-http",
			Short: "Run HTTP server",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
		},
		{
			Use:   "serve-queue:payment",
			Short: "Run queue payment server",
			Run: func(cmd *cobra.Command, args []string) {
				runQueuePaymentCmd(ctx)
			},
		},
		{
			Use:   "storefront",
			Short: "Run the interactive raffle storefront",
			Run: func(cmd *cobra.Command, args []string) {
				runStorefrontCmd(ctx)
			},
		},
		{
			Use:   "draw",
			Short: "Run the roulette draw over sold tickets",
			Run: func(cmd *cobra.Command, args []string) {
				runDrawCmd(ctx)
			},
		},
		{
			Use:   "dev",
			Short: "Run dev server, for testing purpose",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
			PreRun: func(cmd *cobra.Command, args []string) {
				go func() {
					runQueuePaymentCmd(ctx)
				}()
			},
		},
	}

	rootCmd.AddCommand(cmd...)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
