// Package report renders the pipeline as a markdown document, for sharing
// outside the terminal (standups, exec summaries, plain-text archives).
package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flowcrm/internal/dashboard"
	"flowcrm/internal/model"
	"flowcrm/internal/money"
	"flowcrm/internal/stage"
)

type Options struct {
	// Title overrides the default document heading.
	Title string
	// RecentActivities caps the activity section (0 hides it).
	RecentActivities int
	Overwrite        bool
	Now              func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Render produces the full markdown report from the caches.
func Render(deals []model.Deal, contacts []model.Contact, companies []model.Company, activities []model.Activity, opt Options) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Pipeline report"
	}
	writeLn("# " + title)
	writeLn("")
	writeLn("_Generated " + opt.now().Format("2006-01-02 15:04") + "_")
	writeLn("")

	metrics := dashboard.Compute(deals, activities)
	writeLn("## Summary")
	writeLn("")
	writeLn(fmt.Sprintf("- Deals: %d (%d won)", metrics.TotalDeals, metrics.WonDeals))
	writeLn("- Pipeline value: " + money.FormatUSD(metrics.PipelineValue))
	writeLn(fmt.Sprintf("- Activities logged: %d", metrics.ActivityCount))
	writeLn("")

	for _, s := range stage.All() {
		bucket := make([]model.Deal, 0)
		for _, d := range deals {
			if d.Stage == s {
				bucket = append(bucket, d)
			}
		}
		writeLn(fmt.Sprintf("## %s (%d)", s, len(bucket)))
		writeLn("")
		if len(bucket) == 0 {
			writeLn("_none_")
			writeLn("")
			continue
		}
		for _, d := range bucket {
			line := fmt.Sprintf("- **%s** — %s, closes %s", d.Title, money.FormatUSD(d.Value), d.ExpectedCloseDate)
			who := joinNonEmpty(", ",
				model.ContactName(contacts, d.ContactID),
				model.CompanyName(companies, d.CompanyID),
			)
			if who != "" {
				line += " (" + who + ")"
			}
			writeLn(line)
		}
		writeLn("")
	}

	if opt.RecentActivities > 0 {
		recent := dashboard.RecentActivities(activities, opt.RecentActivities)
		writeLn("## Recent activity")
		writeLn("")
		if len(recent) == 0 {
			writeLn("_none_")
		}
		for _, a := range recent {
			line := fmt.Sprintf("- %s · %s: %s", a.Date.Format("2006-01-02"), a.Type, a.Description)
			writeLn(line)
		}
		writeLn("")
	}

	return strings.TrimRight(buf.String(), "\n") + "\n"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Write renders and writes the report to path. Existing files are only
// replaced with Overwrite set.
func Write(path string, deals []model.Deal, contacts []model.Contact, companies []model.Company, activities []model.Activity, opt Options) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("missing output path")
	}
	path = filepath.Clean(path)

	if !opt.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite %s (use --overwrite)", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	md := Render(deals, contacts, companies, activities, opt)
	return os.WriteFile(path, []byte(md), 0o644)
}
