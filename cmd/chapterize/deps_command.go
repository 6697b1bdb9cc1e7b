package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chapterize/internal/deps"
)

func newDepsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))

			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					detail = ""
				} else if !status.Optional {
					missing++
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					yesNo(status.Optional),
					detail,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Command", "Available", "Optional", "Detail"}, rows))
			if missing > 0 {
				return fmt.Errorf("%d required dependencies missing", missing)
			}
			return nil
		},
	}
}
