package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/codetype/internal/corpus"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
)

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(model.Config{}, corpus.Sample{Words: []string{"abcd"}, File: "src/main.rs"}, Options{Sampler: &fakeSampler{}})
	m.Update(keyRunes("x"))
	typeText(m, "ab")

	out := m.renderFooter()
	if !containsAll(out, []string{"Progress 50%", "delete word", "src/main.rs"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestResultLines(t *testing.T) {
	res := stats.Result{
		Elapsed:  12500 * time.Millisecond,
		WPM:      48.4,
		CPM:      242,
		Mistakes: 2,
		Words:    10,
		Accuracy: 97.5,
	}

	t.Run("wide", func(t *testing.T) {
		got := resultLines(res, nil, 200)
		want := []string{
			"time: 12 seconds | wpm: 48 (cpm: 242) | mistakes: 2 | accuracy: 97.50% | word count: 10",
			"",
			tryAgainPrompt,
		}
		if strings.Join(got, "\n") != strings.Join(want, "\n") {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("narrow", func(t *testing.T) {
		got := resultLines(res, nil, 20)
		want := []string{
			"time: 12 seconds",
			"wpm: 48 (cpm: 242)",
			"mistakes: 2",
			"accuracy: 97.50%",
			"word count: 10",
			"",
			"Try again? Y(es)",
			"N(o)",
			"R(etry same words)",
		}
		if strings.Join(got, "\n") != strings.Join(want, "\n") {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("truncates rates", func(t *testing.T) {
		fractional := res
		fractional.WPM = 71.6
		fractional.CPM = 358.9
		got := resultLines(fractional, nil, 200)
		if !strings.Contains(got[0], "wpm: 71 (cpm: 358)") {
			t.Fatalf("got %q", got[0])
		}
	})

	t.Run("below minimum", func(t *testing.T) {
		minAccuracy := 98.0
		got := resultLines(res, &minAccuracy, 200)
		if got[0] != "Accuracy too low (97.50%)" {
			t.Fatalf("got %q", got[0])
		}
	})
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func TestTextCapacity(t *testing.T) {
	cases := []struct {
		width, height, want int
	}{
		{width: 80, height: 24, want: 56 * 23},
		{width: 20, height: 5, want: 14 * 4},
		{width: 20, height: 2, want: 14 * 2},
		{width: 1, height: 3, want: 2},
		{width: 0, height: 24, want: 0},
		{width: 80, height: 0, want: 0},
	}
	for _, tc := range cases {
		if got := TextCapacity(tc.width, tc.height); got != tc.want {
			t.Fatalf("TextCapacity(%d, %d) = %d, want %d", tc.width, tc.height, got, tc.want)
		}
	}
}
