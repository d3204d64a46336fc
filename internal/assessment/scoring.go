// AngelaMos | 2026
// scoring.go

package assessment

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	MaxValues      = 8
	minValueLength = 3
	maxValueLength = 49
)

func isValueSeparator(r rune) bool {
	return r == ',' || r == '、' || r == '・'
}

// ExtractValues splits the Value Lantern answers into short value phrases,
// walking the prompts in order and keeping at most MaxValues.
func ExtractValues(answers map[string]string) []string {
	values := make([]string, 0, MaxValues)

	for _, p := range lanternPrompts {
		for _, part := range strings.FieldsFunc(answers[p.Key], isValueSeparator) {
			v := strings.TrimSpace(part)
			n := utf8.RuneCountInString(v)
			if n < minValueLength || n > maxValueLength {
				continue
			}
			values = append(values, v)
			if len(values) == MaxValues {
				return values
			}
		}
	}

	return values
}

type ConcordanceScore struct {
	Averages map[Regulation]float64 `json:"averages"`
	Index    float64                `json:"self_concordance_index"`
	Label    string                 `json:"label"`
}

// ScoreConcordance averages the two items of each regulation type and
// derives the self-concordance index. Every item must be answered.
func ScoreConcordance(answers map[string]int) (*ConcordanceScore, error) {
	sums := make(map[Regulation]int, 4)
	counts := make(map[Regulation]int, 4)

	for _, item := range concordanceItems {
		v, ok := answers[item.ID]
		if !ok {
			return nil, fmt.Errorf("item %s is unanswered", item.ID)
		}
		if v < LikertMin || v > LikertMax {
			return nil, fmt.Errorf("item %s must be between %d and %d", item.ID, LikertMin, LikertMax)
		}
		sums[item.Type] += v
		counts[item.Type]++
	}

	if len(answers) != len(concordanceItems) {
		return nil, fmt.Errorf("expected %d answers, got %d", len(concordanceItems), len(answers))
	}

	avg := make(map[Regulation]float64, 4)
	for _, r := range []Regulation{Intrinsic, Identified, Introjected, External} {
		avg[r] = round1(float64(sums[r]) / float64(counts[r]))
	}

	sci := round1((avg[Intrinsic] + avg[Identified]) - (avg[Introjected] + avg[External]))

	return &ConcordanceScore{
		Averages: avg,
		Index:    sci,
		Label:    concordanceLabel(sci),
	}, nil
}

func concordanceLabel(sci float64) string {
	switch {
	case sci > 2:
		return "high"
	case sci > 0:
		return "moderate"
	default:
		return "low"
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
