package mood

import (
	"reflect"
	"testing"
)

func fields(pairs ...any) []Field {
	var out []Field
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Field{Key: pairs[i].(string), Value: pairs[i+1].(float64)})
	}
	return out
}

// TestProfileForLiteralTable pins every mood to its exact profile values.
func TestProfileForLiteralTable(t *testing.T) {
	tests := map[Key][]Field{
		Happy:     fields("target_valence", 0.9, "target_energy", 0.8, "min_danceability", 0.7),
		Energetic: fields("target_valence", 0.75, "target_energy", 0.9, "min_danceability", 0.7),
		Relaxed:   fields("target_valence", 0.6, "target_energy", 0.35, "max_energy", 0.45, "min_danceability", 0.3),
		Sad:       fields("target_valence", 0.2, "target_energy", 0.2),
		Romantic:  fields("target_valence", 0.65, "target_energy", 0.5, "min_danceability", 0.4),
		Angry:     fields("target_valence", 0.3, "target_energy", 0.85, "min_danceability", 0.5),
		Neutral:   fields("target_valence", 0.5, "target_energy", 0.5),
		Dreamy:    fields("target_valence", 0.6, "target_energy", 0.4, "min_danceability", 0.35),
		Stressed:  fields("target_valence", 0.4, "target_energy", 0.25, "min_danceability", 0.2),
	}
	if len(tests) != len(Moods()) {
		t.Fatalf("table covers %d moods, Moods() lists %d", len(tests), len(Moods()))
	}
	for k, want := range tests {
		got := ProfileFor(k).Fields()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %+v want %+v", k, got, want)
		}
	}
}

func TestProfileForUnknownMood(t *testing.T) {
	for _, k := range []Key{"", "melancholic", "HAPPY"} {
		if p := ProfileFor(k); !p.IsZero() {
			t.Errorf("%q: expected empty profile, got %+v", k, p.Fields())
		}
	}
}

func TestProfileBoundsOrdered(t *testing.T) {
	for _, k := range Moods() {
		p := ProfileFor(k)
		if p.MinValence != nil && p.MaxValence != nil && *p.MinValence > *p.MaxValence {
			t.Errorf("%s: valence bounds inverted", k)
		}
		if p.MinEnergy != nil && p.MaxEnergy != nil && *p.MinEnergy > *p.MaxEnergy {
			t.Errorf("%s: energy bounds inverted", k)
		}
		for _, fld := range p.Fields() {
			if fld.Value < 0 || fld.Value > 1 {
				t.Errorf("%s: %s=%v outside [0,1]", k, fld.Key, fld.Value)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"", DefaultMood},
		{"  Happy ", Happy},
		{"BLIJ", Happy},
		{"verdrietig", Sad},
		{"relaxed", Relaxed},
		{"Melancholic", "melancholic"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultGenreIsAllowed(t *testing.T) {
	for _, k := range Moods() {
		if g := DefaultGenre(k); !IsAllowedSeed(g) {
			t.Errorf("%s maps to %q which is not an allowed seed", k, g)
		}
	}
	if g := DefaultGenre("melancholic"); g != DefaultSeed {
		t.Errorf("unknown mood genre = %q", g)
	}
}

func TestIsAllowedSeed(t *testing.T) {
	for _, s := range Seeds() {
		if !IsAllowedSeed(s) {
			t.Errorf("%q should be allowed", s)
		}
	}
	for _, s := range []string{"Rock", "HIP-HOP", " jazz "} {
		if !IsAllowedSeed(s) {
			t.Errorf("%q should be allowed case-insensitively", s)
		}
	}
	for _, s := range []string{"", "   ", "nederpop", "hip hop", "pop,rock"} {
		if IsAllowedSeed(s) {
			t.Errorf("%q should be rejected", s)
		}
	}
	if got, _ := NormalizeSeed("K-Pop"); got != "k-pop" {
		t.Errorf("NormalizeSeed = %q", got)
	}
}

func TestDeriveMarket(t *testing.T) {
	tests := []struct {
		name   string
		region string
		locale string
		want   string
	}{
		{"explicit country", "nl", "", "NL"},
		{"language code is not a country", "EN", "", "US"},
		{"locale region subtag", "", "nl-NL", "NL"},
		{"locale underscore", "", "pt_BR", "BR"},
		{"locale language doubles as country", "", "de", "DE"},
		{"english without region", "", "en", "US"},
		{"locale-shaped region", "es-MX", "", "MX"},
		{"region wins over locale", "SE", "nl-NL", "SE"},
		{"bad region uses locale", "EN", "fr-FR", "FR"},
		{"nothing", "", "", "US"},
		{"garbage", "???", "!!", "US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveMarket(tt.region, tt.locale); got != tt.want {
				t.Errorf("DeriveMarket(%q, %q) = %q, want %q", tt.region, tt.locale, got, tt.want)
			}
		})
	}
}

func TestLocaleFromAcceptLanguage(t *testing.T) {
	if got := LocaleFromAcceptLanguage("nl-NL,nl;q=0.9,en;q=0.8"); got != "nl-NL" {
		t.Errorf("got %q", got)
	}
	if got := LocaleFromAcceptLanguage(""); got != "" {
		t.Errorf("got %q", got)
	}
}
