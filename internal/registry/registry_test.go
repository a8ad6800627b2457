package registry

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		token    string
		wantKind Kind
		wantOK   bool
	}{
		{"hopitaux", KindInfo, true},
		{"/hopitaux", KindInfo, true},
		{"hopitaux@warden_bot", KindInfo, true},
		{"raslan", KindSavant, true},
		{"ban", KindSystem, true},
		{"start", KindSystem, true},
		{"HOPITAUX", KindInfo, true},
		{"nope", 0, false},
		{"", 0, false},
		{"@warden_bot", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			d, ok := r.Resolve(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if ok && d.Kind != tt.wantKind {
				t.Errorf("Resolve(%q) kind = %v, want %v", tt.token, d.Kind, tt.wantKind)
			}
		})
	}
}

func TestResolveDescriptorPayloads(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}

	d, ok := r.Resolve("hopitaux")
	if !ok || d.MessageKey != "hospitals" {
		t.Errorf("info descriptor = %+v", d)
	}

	d, ok = r.Resolve("walid_boughdadi")
	if !ok || d.Savant == nil || d.Savant.DisplayName != "Cheikh Walid Boughdadi" {
		t.Errorf("savant descriptor = %+v", d)
	}
}

func TestNoDuplicateNames(t *testing.T) {
	// New validates uniqueness across all three tables; a collision in the
	// static data is a programming error and must fail construction.
	if _, err := New(); err != nil {
		t.Fatalf("New() error = %v, static tables collide", err)
	}
}

func TestFormatSavant(t *testing.T) {
	full := &Savant{
		ID:             "x",
		DisplayName:    "Cheikh Example",
		Description:    "A description",
		Location:       "https://maps.example/1",
		CourseLocation: "https://maps.example/2",
		Channel:        "https://t.me/example",
	}
	got := FormatSavant(full)
	for _, want := range []string{"Cheikh Example", "A description", "https://maps.example/1", "https://maps.example/2", "https://t.me/example"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatSavant() missing %q in %q", want, got)
		}
	}

	minimal := &Savant{ID: "y", DisplayName: "Cheikh Minimal", Location: "somewhere"}
	got = FormatSavant(minimal)
	if strings.Contains(got, "Courses:") || strings.Contains(got, "Telegram channel") {
		t.Errorf("FormatSavant() rendered empty optional sections: %q", got)
	}
}

func TestHelpListings(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}

	if got := len(r.InfoNames()); got != 10 {
		t.Errorf("InfoNames() length = %d, want 10", got)
	}
	if got := len(r.SavantNames()); got != 6 {
		t.Errorf("SavantNames() length = %d, want 6", got)
	}

	// Every listed name must resolve back to a descriptor.
	for _, name := range append(r.InfoNames(), r.SavantNames()...) {
		if _, ok := r.Resolve(name); !ok {
			t.Errorf("listed command %q does not resolve", name)
		}
	}
}
