package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/feedmirror/feedmirror/bot"
	bottypes "github.com/feedmirror/feedmirror/bot/types"
)

func resetDBCmd(ctx *cmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-db [bot-name]",
		Args:  cobra.ExactArgs(1),
		Short: "Reset a bot's db.",
		Long: `Reset a bot's db.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			botType := bottypes.BotTypeFromString(args[0])
			if err := botType.Validate(); err != nil {
				return err
			}

			return os.RemoveAll(bot.GetDBPath(ctx.homePath, botType))
		},
	}
	return cmd
}
