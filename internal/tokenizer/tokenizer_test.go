package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/go-retrieval-engine/model"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "hello, world!", []string{"hello", "world"}},
		{"uppercase headline", "KENNEDY ADMINISTRATION PRESSURE ON NGO DINH DIEM TO STOP", []string{"kennedy", "administration", "pressure", "on", "ngo", "dinh", "diem", "to", "stop"}},
		{"with numbers", "the 1963 treaty", []string{"the", "1963", "treaty"}},
		{"leading/trailing spaces", "  hello world  ", []string{"hello", "world"}},
		{"string with hyphen", "test-ban treaty", []string{"test", "ban", "treaty"}},
		{"apostrophes", "russia's position", []string{"russia", "s", "position"}},
		{"non ascii letters", "Ngô Đình Diệm", []string{"ngô", "đình", "diệm"}},
		{"only symbols", "!@#$%^", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestAnalyzer(t *testing.T) {
	analyzer := Analyzer{Stopwords: map[string]struct{}{"the": {}, "of": {}, "on": {}}}

	assert.Equal(t, []string{"terms", "treaty", "treaty"}, analyzer.Terms("The terms of the treaty, the TREATY"))
	assert.Equal(t, map[string]int{"soviet": 2, "position": 1}, analyzer.Frequencies("Soviet position on the Soviet"))
	assert.Equal(t,
		model.Document{ID: "q1", Frequencies: map[string]int{"berlin": 1}},
		analyzer.Document("q1", "on Berlin"),
	)

	var plain Analyzer
	assert.Equal(t, map[string]int{"the": 1, "wall": 1}, plain.Frequencies("the wall"))
	assert.Empty(t, plain.Frequencies("..."))
}
