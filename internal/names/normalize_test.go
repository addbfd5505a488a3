package names

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ole Miss Rebels", "ole miss rebels"},
		{"University of Alabama", "alabama"},
		{"The Ohio State University", "ohio state"},
		{"Texas A&M", "texas am"},
		{"Miami (OH)", "miami oh"},
		{"San José State", "san jose state"},
		{"Hawai'i", "hawaii"},
		{"  UL   Monroe  Warhawks ", "ul monroe warhawks"},
		{"St. John's", "st johns"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// "state" must survive normalization: it is the disambiguator between
// programs like oklahoma and oklahoma-state.
func TestNormalizeKeepsState(t *testing.T) {
	got := Normalize("Oklahoma State University")
	if got != "oklahoma state" {
		t.Fatalf("Normalize stripped the state token: %q", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ole Miss", "ole-miss"},
		{"Texas A&M", "texas-am"},
		{"Brigham Young University", "brigham-young"},
		{"San José State", "san-jose-state"},
		{"Louisiana-Monroe", "louisiana-monroe"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("The University of Southern California")
	want := []string{"southern", "california"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}

func TestSlugTokens(t *testing.T) {
	got := SlugTokens("louisiana-monroe")
	want := []string{"louisiana", "monroe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SlugTokens = %v, want %v", got, want)
	}
}
