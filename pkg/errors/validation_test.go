package errors

import (
	"testing"
)

func TestValidateConceptID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"wordnet offset", "n08412345", false},
		{"ontology iri", "http://example.org/onto#Animal", false},
		{"with colon", "wn:dog.n.01", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"space", "foo bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConceptID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConceptID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSourceURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative path", "testdata/wordnet.toml", false},
		{"file uri", "file:///data/wn.json", false},
		{"redis", "redis://localhost:6379/0", false},
		{"mongo", "mongodb://localhost:27017/wordnet", false},

		{"empty", "", true},
		{"http", "http://example.com/graph.json", true},
		{"control char", "graph\x01.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourceURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourceURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
