package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/feedmirror/feedmirror/bot"
	bottypes "github.com/feedmirror/feedmirror/bot/types"
	"github.com/feedmirror/feedmirror/sentry_integration"
	"github.com/feedmirror/feedmirror/types"
)

func startCmd(ctx *cmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [bot-name]",
		Args:  cobra.ExactArgs(1),
		Short: "Start a bot with the given name",
		Long: `Start a bot with the given name.

Currently supported bots:
- mirror
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configName, err := cmd.Flags().GetString(flagConfigName)
			if err != nil {
				return err
			}
			botType := bottypes.BotTypeFromString(args[0])
			sentry_integration.Init(string(botType))

			b, err := bot.NewBot(botType, ctx.logger, ctx.homePath, configName)
			if err != nil {
				return err
			}

			cmdCtx, botDone := context.WithCancel(cmd.Context())
			defer botDone()
			errGrp, groupCtx := errgroup.WithContext(cmdCtx)

			botCtx := types.NewContext(groupCtx, ctx.logger, ctx.homePath).
				WithErrGrp(errGrp)

			err = b.Initialize(botCtx)
			if err != nil {
				return err
			}

			gracefulShutdown(botDone)
			return b.Start(botCtx)
		},
	}

	cmd = configFlag(ctx.v, cmd)
	return cmd
}

func gracefulShutdown(done context.CancelFunc) {
	signalChannel := make(chan os.Signal, 2)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChannel
		fmt.Println("Received signal to stop. Shutting down...")
		done()
	}()
}
