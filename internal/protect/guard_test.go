package protect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

func baseRecord() *models.ResearchRecord {
	return &models.ResearchRecord{
		FirmName:    "Doe & Associates",
		Website:     "https://doelaw.example",
		Location:    models.Location{City: "Austin", State: "TX"},
		Competitors: []models.Competitor{{Name: "Smith Family Law", Reviews: models.Float(120), Rating: models.Float(4.8)}},
	}
}

func TestNewGuard(t *testing.T) {
	g := NewGuard("competitors.*.name", "website")
	if len(g.patterns) != len(DefaultFields)+1 {
		t.Errorf("patterns = %v, want defaults plus one new pattern", g.patterns)
	}
	if ok, p := g.IsProtected("competitors.0.name"); !ok || p != "competitors.*.name" {
		t.Errorf("IsProtected = %v, %q", ok, p)
	}
	if ok, _ := g.IsProtected("firmName"); ok {
		t.Error("firmName should not be protected by default")
	}
}

func TestGuard_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.ResearchRecord)
		want   []string
	}{
		{
			name:   "unprotected change",
			mutate: func(r *models.ResearchRecord) { r.FirmName = "Doe Law Group" },
		},
		{
			name:   "filling an empty field",
			mutate: func(r *models.ResearchRecord) { r.ContactName = "Jane Doe"; r.Location.Country = "US" },
		},
		{
			name:   "changing a populated field",
			mutate: func(r *models.ResearchRecord) { r.Website = "https://other.example" },
			want:   []string{"website"},
		},
		{
			name:   "clearing a populated field",
			mutate: func(r *models.ResearchRecord) { r.Website = "" },
			want:   []string{"website"},
		},
		{
			name:   "changing a competitor name",
			mutate: func(r *models.ResearchRecord) { r.Competitors[0].Name = "Invented Firm" },
			want:   []string{"competitors.0.name"},
		},
		{
			name:   "removing a competitor",
			mutate: func(r *models.ResearchRecord) { r.Competitors = nil },
			want:   []string{"competitors.0.name"},
		},
	}

	g := NewGuard("competitors.*.name")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := baseRecord()
			after := before.Clone()
			tt.mutate(after)

			vs, err := g.Violations(before, after)
			if err != nil {
				t.Fatalf("Violations failed: %v", err)
			}
			var got []string
			for _, v := range vs {
				got = append(got, v.Field)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("violations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGuard_Check(t *testing.T) {
	g := NewGuard()
	before := baseRecord()

	if err := g.Check(before, before.Clone()); err != nil {
		t.Errorf("unchanged record: %v", err)
	}

	after := before.Clone()
	after.Website = "https://other.example"
	err := g.Check(before, after)
	if !errors.Is(err, ErrProtectedField) {
		t.Fatalf("err = %v, want ErrProtectedField", err)
	}
}

func TestGuard_LoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "banned_phrases:\n  - act now\nprotected_fields:\n  - practiceAreas.*\n  - website\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	g := NewGuard()
	if err := g.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if ok, _ := g.IsProtected("practiceAreas.0"); !ok {
		t.Error("expected practiceAreas.0 to be protected")
	}
	if len(g.patterns) != len(DefaultFields)+1 {
		t.Errorf("duplicate pattern added: %v", g.patterns)
	}

	if err := g.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
