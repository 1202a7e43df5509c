package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/nvbf/event-seed/repos/eventapi"
)

// Report lists everything a run created, in creation order.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Users     []eventapi.User
	Tags      []eventapi.Tag
	Events    []eventapi.Event
}

func (r *Report) ImageCount() int {
	n := 0
	for _, e := range r.Events {
		n += len(e.ImageIDs)
	}
	return n
}

// Summary renders the report as plain text, one entity per line.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seed run %s started %s (took %s)\n", r.RunID, r.StartedAt.UTC().Format(time.RFC3339), r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "%d users, %d tags, %d events, %d images\n", len(r.Users), len(r.Tags), len(r.Events), r.ImageCount())

	for _, u := range r.Users {
		fmt.Fprintf(&b, "user\t%s\t%s\n", u.ID, u.Name)
	}
	for _, tag := range r.Tags {
		fmt.Fprintf(&b, "tag\t%s\t%s\t[%s]\n", tag.ID, tag.Name, strings.Join(tag.Aliases, ", "))
	}
	for _, e := range r.Events {
		fmt.Fprintf(&b, "event\t%s\t%s\tauthor=%s\ttags=[%s]\timages=[%s]\n",
			e.ID, e.Title, e.AuthorID, strings.Join(e.TagIDs, ", "), strings.Join(e.ImageIDs, ", "))
	}
	return b.String()
}
