package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/conorfennell/problemlog/internal/domain"
	"github.com/conorfennell/problemlog/internal/revision"
)

// WriteList prints every entry, newest first.
func WriteList(w io.Writer, page Page, detailed bool) error {
	if page.Empty() {
		_, err := fmt.Fprintln(w, "No problems added yet. Start tracking your progress!")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDIFFICULTY\tTOPIC\tCOMPANY\tSTATUS\tADDED")
	for _, e := range page.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Name, e.Difficulty, e.Topic, e.Company, status(e), e.Date)
		if detailed && e.HasDetails {
			if link := e.LinkText(); link != "" {
				fmt.Fprintf(tw, "\t  link: %s\t\t\t\t\t\n", link)
			}
			if notes := e.NotesText(); notes != "" {
				fmt.Fprintf(tw, "\t  notes: %s\t\t\t\t\t\n", strings.ReplaceAll(notes, "\n", " / "))
			}
			if rev := e.RevisionDateText(); rev != "" {
				fmt.Fprintf(tw, "\t  revise on: %s\t\t\t\t\t\n", rev)
			}
		}
	}
	return tw.Flush()
}

// WriteDue prints the revision reminders, or nothing when none are due.
func WriteDue(w io.Writer, page Page) error {
	if !page.ShowRevisions {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Due for revision (%d):\n", len(page.Due)); err != nil {
		return err
	}
	for _, e := range page.Due {
		if _, err := fmt.Fprintf(w, "  [%d] %s  Topic: %s  Difficulty: %s\n", e.ID, e.Name, e.Topic, e.Difficulty); err != nil {
			return err
		}
	}
	return nil
}

// WriteStats prints the four counters and the difficulty breakdown.
func WriteStats(w io.Writer, page Page) error {
	s := page.Stats
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total problems:\t%d\n", s.Total)
	fmt.Fprintf(tw, "Topics covered:\t%d\n", s.UniqueTopics)
	fmt.Fprintf(tw, "Companies:\t%d\n", s.UniqueCompanies)
	fmt.Fprintf(tw, "Due for revision:\t%d\n", s.DueRevisionCount)
	fmt.Fprintf(tw, "Scheduled later:\t%d\n", s.PendingRevisionCount)
	for _, d := range domain.Difficulties {
		fmt.Fprintf(tw, "%s:\t%d\n", d, s.ByDifficulty[d])
	}
	return tw.Flush()
}

func status(e Entry) string {
	switch e.State {
	case revision.Due:
		return "needs revision"
	case revision.Pending:
		return "revise " + e.RevisionDateText()
	case revision.Revised:
		return "revised"
	}
	return "-"
}
