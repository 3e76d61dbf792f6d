package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"moodify/pkg/config"
	"moodify/pkg/logging"
	"moodify/pkg/recommend"
)

func newRecommendCmd() *cobra.Command {
	var req recommend.Request
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Resolve one mood and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.New(logging.Options{Level: cfg.LogLevel})
			log.SetOutput(cmd.ErrOrStderr())

			a := wire(cmd.Context(), cfg, log)
			defer a.Close()

			res, err := a.resolver.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Mood, "mood", "", "mood to resolve (default happy)")
	f.StringVar(&req.Genre, "genre", "", "genre seed overriding the mood's default")
	f.StringVar(&req.Region, "region", "", "two-letter market")
	f.StringVar(&req.Locale, "locale", "", "locale used when region is empty, e.g. nl-NL")
	f.IntVar(&req.Limit, "limit", 0, "number of tracks (default DEFAULT_LIMIT)")
	f.IntVar(&req.Offset, "offset", 0, "page offset; switches to genre search")
	f.StringVar(&req.UserToken, "token", "", "user access token instead of the service credential")
	return cmd
}
