package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of the binary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bz, err := json.MarshalIndent(NewInfo(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}
}
