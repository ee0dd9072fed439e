package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/mashup/internal/app"
	"github.com/ewilliams-labs/mashup/internal/core/domain"
	"github.com/ewilliams-labs/mashup/pkg/client"
)

func cmdMatch() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "List tracks compatible with a tempo and key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			bpm, _ := flags.GetInt("bpm")
			key, _ := flags.GetString("key")
			genre, _ := flags.GetString("genre")
			search, _ := flags.GetString("search")
			exclude, _ := flags.GetString("exclude")
			strict, _ := flags.GetBool("strict-key")

			if c := remote(cmd); c != nil {
				res, err := c.Compatible(cmd.Context(), client.CompatibleParams{
					BPM:       bpm,
					Key:       key,
					ExcludeID: exclude,
					Genre:     genre,
					Search:    search,
					StrictKey: strict,
				})
				if err != nil {
					return err
				}
				printMeta(cmd, res.Source, res.Warning)
				return printTracks(cmd.OutOrStdout(), res.Tracks)
			}

			return withLocalApp(cmd, func(a *app.App) error {
				res, err := a.Discovery.Compatible(cmd.Context(), domain.CompatibilityQuery{
					BPM:       bpm,
					Key:       key,
					ExcludeID: exclude,
					Genre:     genre,
					Search:    search,
					StrictKey: strict,
				})
				if err != nil {
					return err
				}
				printMeta(cmd, string(res.Source), res.Warning)
				return printTracks(cmd.OutOrStdout(), res.Tracks)
			})
		},
	}

	cmd.Flags().Int("bpm", 0, "target tempo")
	cmd.Flags().String("key", "", `target key, e.g. "A minor" or "F#m"`)
	cmd.Flags().String("genre", "", "restrict live queries to a genre")
	cmd.Flags().String("search", "", "extra search terms for live queries")
	cmd.Flags().String("exclude", "", "track id to leave out")
	cmd.Flags().Bool("strict-key", false, "drop tracks in incompatible keys")
	_ = cmd.MarkFlagRequired("bpm")
	return cmd
}
