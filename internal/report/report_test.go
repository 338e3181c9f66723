package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flowcrm/internal/model"
	"flowcrm/internal/stage"
)

func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
}

func sampleData() ([]model.Deal, []model.Contact, []model.Company, []model.Activity) {
	contactID := 1
	companyID := 2
	deals := []model.Deal{
		{ID: 10, Title: "Acme renewal", Value: 3500, Stage: stage.LeadIn, ExpectedCloseDate: "2026-10-01", ContactID: &contactID, CompanyID: &companyID},
		{ID: 11, Title: "Initech pilot", Value: 1200, Stage: stage.Won, ExpectedCloseDate: "2026-08-01"},
	}
	contacts := []model.Contact{{ID: 1, Name: "Dana Fox"}}
	companies := []model.Company{{ID: 2, Name: "Acme Corp"}}
	activities := []model.Activity{
		{ID: 20, Type: model.ActivityCall, Description: "Intro call", Date: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)},
	}
	return deals, contacts, companies, activities
}

func TestRenderIncludesSummaryAndStageSections(t *testing.T) {
	t.Parallel()

	deals, contacts, companies, activities := sampleData()
	md := Render(deals, contacts, companies, activities, Options{RecentActivities: 5, Now: fixedNow})

	for _, want := range []string{
		"# Pipeline report",
		"- Deals: 2 (1 won)",
		"- Pipeline value: $4,700",
		"## Lead In (1)",
		"**Acme renewal** — $3,500, closes 2026-10-01 (Dana Fox, Acme Corp)",
		"## Won (1)",
		"## Contact Made (0)",
		"_none_",
		"## Recent activity",
		"- 2026-08-30 · Call: Intro call",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestWriteRefusesOverwriteWithoutFlag(t *testing.T) {
	t.Parallel()

	deals, contacts, companies, activities := sampleData()
	path := filepath.Join(t.TempDir(), "report.md")

	if err := Write(path, deals, contacts, companies, activities, Options{Now: fixedNow}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := Write(path, deals, contacts, companies, activities, Options{Now: fixedNow}); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	if err := Write(path, deals, contacts, companies, activities, Options{Overwrite: true, Now: fixedNow}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(b), "# Pipeline report") {
		t.Fatal("file does not contain the report")
	}
}
