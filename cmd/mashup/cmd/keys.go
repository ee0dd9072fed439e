package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

func cmdKeys() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <key>",
		Short: "Print the keys that mix well with a key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := domain.NormalizeKey(strings.Join(args, " "))
			if !domain.IsCanonicalKey(key) {
				return fmt.Errorf("unknown key %q", key)
			}
			for _, k := range domain.CompatibleKeys(key) {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}
