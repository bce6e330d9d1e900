package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func newTestExtractor(gen *stubGenerator) *Extractor {
	return NewExtractor(gen, zap.NewNop(), 0)
}

func TestExtract(t *testing.T) {
	gen := &stubGenerator{
		response: `{"years_of_experience": 6, "quality_score": 82.5, "rationale": "Solid crèche background."}`,
	}

	got, err := newTestExtractor(gen).Extract(context.Background(), "cand-1", "Six ans en crèche collective.")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if got.Score != 82.5 {
		t.Errorf("Score = %v, want 82.5", got.Score)
	}
	if got.ExperienceYears != 6 {
		t.Errorf("ExperienceYears = %d, want 6", got.ExperienceYears)
	}
	if got.Rationale != "Solid crèche background." {
		t.Errorf("Rationale = %q", got.Rationale)
	}
	if got.Raw != gen.response {
		t.Errorf("Raw = %q, want the verbatim model output", got.Raw)
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty", got.Error)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times, want 1", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "Six ans en crèche collective.") {
		t.Error("prompt does not contain the candidate summary")
	}
	if strings.Contains(gen.prompts[0], "{{SUMMARY}}") {
		t.Error("prompt still contains the summary placeholder")
	}
}

func TestExtractFencedResponse(t *testing.T) {
	gen := &stubGenerator{
		response: "```json\n{\"years_of_experience\": \"3\", \"quality_score\": \"64\", \"rationale\": \"ok\"}\n```",
	}

	got, err := newTestExtractor(gen).Extract(context.Background(), "cand-1", "résumé")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.Score != 64 {
		t.Errorf("Score = %v, want 64", got.Score)
	}
	if got.ExperienceYears != 3 {
		t.Errorf("ExperienceYears = %d, want 3", got.ExperienceYears)
	}
}

func TestExtractClampsScore(t *testing.T) {
	cases := []struct {
		response string
		want     float64
	}{
		{`{"quality_score": 150}`, 100},
		{`{"quality_score": -20}`, 0},
		{`{"quality_score": "not a number"}`, 0},
		{`{}`, 0},
	}

	for _, tc := range cases {
		gen := &stubGenerator{response: tc.response}
		got, err := newTestExtractor(gen).Extract(context.Background(), "cand-1", "résumé")
		if err != nil {
			t.Fatalf("Extract(%q) returned error: %v", tc.response, err)
		}
		if got.Score != tc.want {
			t.Errorf("Extract(%q).Score = %v, want %v", tc.response, got.Score, tc.want)
		}
	}
}

func TestExtractEmptySummary(t *testing.T) {
	gen := &stubGenerator{}
	if _, err := newTestExtractor(gen).Extract(context.Background(), "cand-1", "   "); err == nil {
		t.Error("expected error for empty summary")
	}
	if len(gen.prompts) != 0 {
		t.Error("generator must not be called for an empty summary")
	}
}

func TestExtractGeneratorError(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	gen := &stubGenerator{err: wantErr}

	_, err := newTestExtractor(gen).Extract(context.Background(), "cand-1", "résumé")
	if !errors.Is(err, wantErr) {
		t.Errorf("Extract error = %v, want %v", err, wantErr)
	}
}

func TestExtractMalformedResponse(t *testing.T) {
	gen := &stubGenerator{response: "I cannot answer that."}
	if _, err := newTestExtractor(gen).Extract(context.Background(), "cand-1", "résumé"); err == nil {
		t.Error("expected error for a non-JSON response")
	}
}

func TestNewExtractorNilLogger(t *testing.T) {
	gen := &stubGenerator{response: `{"quality_score": 55}`}

	got, err := NewExtractor(gen, nil, 0).Extract(context.Background(), "cand-1", "résumé")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.Score != 55 {
		t.Errorf("Score = %v, want 55", got.Score)
	}
}

func TestExtractNegativeExperience(t *testing.T) {
	gen := &stubGenerator{response: `{"years_of_experience": -2, "quality_score": 40}`}
	got, err := newTestExtractor(gen).Extract(context.Background(), "cand-1", "résumé")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.ExperienceYears != 0 {
		t.Errorf("ExperienceYears = %d, want 0", got.ExperienceYears)
	}
}
