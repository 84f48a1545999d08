package main

import (
	"encoding/json"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	bottypes "github.com/feedmirror/feedmirror/bot/types"
	mirrortypes "github.com/feedmirror/feedmirror/mirror/types"
)

func initCmd(ctx *cmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [bot-name]",
		Args:  cobra.ExactArgs(1),
		Short: "Initialize a bot's configuration files.",
		Long: `Initialize a bot's configuration files.
Currently supported bots are: mirror
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configName, err := cmd.Flags().GetString(flagConfigName)
			if err != nil {
				return err
			}

			configPath := path.Join(ctx.homePath, configName)
			if path.Ext(configPath) != ".json" {
				return errors.New("config file must be a json file")
			}

			if err := os.MkdirAll(ctx.homePath, 0o755); err != nil {
				return err
			}

			botType := bottypes.BotTypeFromString(args[0])
			switch botType {
			case bottypes.BotTypeMirror:
				f, err := os.Create(configPath)
				if err != nil {
					return err
				}
				defer f.Close()

				bz, err := json.MarshalIndent(mirrortypes.DefaultConfig(), "", "  ")
				if err != nil {
					return err
				}

				if _, err := f.Write(bz); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd = configFlag(ctx.v, cmd)
	return cmd
}
