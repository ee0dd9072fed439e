package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/mashup/internal/app"
)

func cmdSearch() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tracks by title or artist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			if c := remote(cmd); c != nil {
				res, err := c.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				printMeta(cmd, res.Source, res.Warning)
				return printTracks(cmd.OutOrStdout(), res.Tracks)
			}

			return withLocalApp(cmd, func(a *app.App) error {
				res, err := a.Discovery.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				printMeta(cmd, string(res.Source), res.Warning)
				return printTracks(cmd.OutOrStdout(), res.Tracks)
			})
		},
	}
}
