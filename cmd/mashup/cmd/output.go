package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/ewilliams-labs/mashup/internal/core/domain"
)

func printTracks(w io.Writer, tracks []domain.Track) error {
	if len(tracks) == 0 {
		_, err := fmt.Fprintln(w, "no tracks found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTIST\tBPM\tKEY\tDATA")
	for _, t := range tracks {
		bpm := "-"
		if t.BPM > 0 {
			bpm = strconv.Itoa(t.BPM)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Artist, bpm, t.Key, t.Source)
	}
	return tw.Flush()
}
