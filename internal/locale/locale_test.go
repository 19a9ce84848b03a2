package locale

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()

	r, err := NewResolver("en-US", "UTC")
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNewResolver(t *testing.T) {
	tests := []struct {
		name     string
		fallback string
		timeZone string
		wantErr  bool
	}{
		{"Defaults", "en-US", "UTC", false},
		{"German Fallback", "de", "UTC", false},
		{"Unsupported Locale", "tlh", "UTC", true},
		{"Unknown Time Zone", "en-US", "Mars/Olympus_Mons", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.fallback, tt.timeZone)
			if (err != nil) != tt.wantErr {
				t.Errorf("want error %v; got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name       string
		preference string
		accept     string
		want       language.Tag
	}{
		{"Nothing", "", "", language.AmericanEnglish},
		{"Preference Wins", "ja", "de-DE,de;q=0.9", language.Japanese},
		{"Unsupported Preference", "tlh", "fr-FR", language.French},
		{"Accept Language", "", "de-DE,de;q=0.9,en;q=0.5", language.German},
		{"Brazilian Portuguese", "", "pt-BR", language.BrazilianPortuguese},
		{"No Match", "", "zu", language.AmericanEnglish},
		{"Malformed Header", "", ";;;", language.AmericanEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.preference, tt.accept); got != tt.want {
				t.Errorf("want %s; got %s", tt.want, got)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	r := newResolver(t)
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		tag  language.Tag
		want string
	}{
		{language.AmericanEnglish, "1/15/2024"},
		{language.BritishEnglish, "15/01/2024"},
		{language.German, "15.1.2024"},
		{language.French, "15/01/2024"},
		{language.Spanish, "15/1/2024"},
		{language.Japanese, "2024/1/15"},
		{language.BrazilianPortuguese, "15/01/2024"},
		{language.Korean, "1/15/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			if got := r.FormatDate(tt.tag, created); got != tt.want {
				t.Errorf("want %q; got %q", tt.want, got)
			}
		})
	}
}

func TestFormatDateTimeZone(t *testing.T) {
	r, err := NewResolver("en-US", "Asia/Tokyo")
	if err != nil {
		t.Skipf("time zone database unavailable: %v", err)
	}

	created := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	if got := r.FormatDate(language.AmericanEnglish, created); got != "1/16/2024" {
		t.Errorf("want %q; got %q", "1/16/2024", got)
	}
}

func TestParse(t *testing.T) {
	if tag, ok := Parse("pt-BR"); !ok || tag != language.BrazilianPortuguese {
		t.Errorf("want pt-BR; got %s %v", tag, ok)
	}
	if _, ok := Parse("it"); ok {
		t.Error("want it to be unsupported")
	}
	if _, ok := Parse("not a tag!"); ok {
		t.Error("want malformed tag rejected")
	}
}

func TestOptions(t *testing.T) {
	opts := Options(language.German)
	if len(opts) != len(supported) {
		t.Fatalf("want %d options; got %d", len(supported), len(opts))
	}

	active := 0
	for _, o := range opts {
		if o.Label == "" {
			t.Errorf("option %s has no label", o.Tag)
		}
		if o.Active {
			active++
			if o.Tag != "de" {
				t.Errorf("want de active; got %s", o.Tag)
			}
		}
	}
	if active != 1 {
		t.Errorf("want 1 active option; got %d", active)
	}
}
