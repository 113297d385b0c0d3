package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"playrate/internal/core/format"
	"playrate/internal/core/intent"
	"playrate/internal/core/music"
	"playrate/internal/core/version"
	ptime "playrate/internal/platform/time"
	pcdomain "playrate/internal/services/playcount/domain"
	"playrate/internal/services/resolve/domain"

	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	var album bool
	cmd := &cobra.Command{
		Use:   "resolve <text>",
		Short: "Resolve free text to a track or album with statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := a.build(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			kind := string(music.KindTrack)
			if album {
				kind = string(music.KindAlbum)
			}
			res, err := api.Resolve.Service().Resolve(cmd.Context(), domain.Query{Text: strings.Join(args, " "), Kind: kind})
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(res)
			}
			a.printResult(res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&album, "album", false, "resolve an album instead of a track")
	return cmd
}

func newPlaycountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "playcount <track-id|track-url>",
		Short: "Fetch the lifetime play count of one track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := a.build(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			svc := api.PlayCount.Service()
			arg := strings.TrimSpace(args[0])
			var (
				rec pcdomain.Record
				ok  bool
			)
			if strings.Contains(arg, "/") {
				rec, ok, err = svc.FetchURL(cmd.Context(), arg)
				if err != nil {
					return err
				}
			} else {
				rec, ok = svc.Fetch(cmd.Context(), arg, music.TrackURL(arg))
			}

			view := pcdomain.NewCountView(arg, "", nil, format.NotAvailable)
			if ok {
				view = pcdomain.NewCountView(rec.ID, music.TrackURL(rec.ID), rec.LifetimeCount, format.Full(rec.LifetimeCount))
				view.CapturedAt = ptime.Ptr(rec.CapturedAt)
			}
			if a.asJSON {
				return a.printJSON(view)
			}
			fmt.Fprintf(a.out, "%s\t%s\n", view.ID, view.Display)
			return nil
		},
	}
}

func newPlaycountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "playcounts <track-url>...",
		Short: "Fetch play counts for many track URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, done, err := a.build(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			counts := api.PlayCount.Service().FetchMany(cmd.Context(), args)
			if a.asJSON {
				return a.printJSON(pcdomain.BatchOutput{Counts: counts})
			}
			for _, u := range args {
				fmt.Fprintf(a.out, "%s\t%s\n", u, format.Full(counts[u]))
			}
			return nil
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	var album bool
	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Show how free text splits into title and artist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			h := intent.Parse(text)
			if album {
				h = intent.ParseAlbum(text)
			}
			out := struct {
				intent.Hypothesis
				Query string `json:"query"`
			}{h, intent.Query(h)}
			if a.asJSON {
				return a.printJSON(out)
			}
			fmt.Fprintf(a.out, "title:  %s\nartist: %s\nquery:  %s\n", h.Title, h.Artist, out.Query)
			return nil
		},
	}
	cmd.Flags().BoolVar(&album, "album", false, "use album phrasing rules")
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(_ *cobra.Command, _ []string) error {
			bi := version.Info()
			if a.asJSON {
				return a.printJSON(bi)
			}
			fmt.Fprintf(a.out, "playrate %s (%s, %s)\n", bi.Version, bi.Commit, bi.Date)
			return nil
		},
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printResult(res domain.Result) {
	if res.Status == domain.StatusNotFound {
		fmt.Fprintf(a.out, "no %s found for %q\n", res.Kind, res.Query)
		return
	}
	switch {
	case res.Track != nil:
		t := res.Track
		fmt.Fprintf(a.out, "%s - %s\n", t.Title, t.ArtistLine)
		fmt.Fprintf(a.out, "album:      %s\n", t.Album)
		fmt.Fprintf(a.out, "released:   %s %s\n", t.ReleaseDate, t.Released)
		fmt.Fprintf(a.out, "duration:   %s\n", t.Duration)
		fmt.Fprintf(a.out, "popularity: %d (%s)\n", t.Popularity, t.Rating)
		fmt.Fprintf(a.out, "plays:      %s\n", t.Plays)
		fmt.Fprintf(a.out, "per year:   %s\n", t.PerYear)
		fmt.Fprintf(a.out, "url:        %s\n", t.URL)
	case res.Album != nil:
		al := res.Album
		fmt.Fprintf(a.out, "%s - %s\n", al.Title, al.ArtistLine)
		fmt.Fprintf(a.out, "released:   %s %s\n", al.ReleaseDate, al.Released)
		fmt.Fprintf(a.out, "label:      %s\n", al.Label)
		fmt.Fprintf(a.out, "popularity: %d (%s)\n", al.Popularity, al.Rating)
		fmt.Fprintf(a.out, "url:        %s\n\n%s\n", al.URL, al.Listing)
	}
}
