package service

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/msomdec/lovebridge/internal/domain"
)

const (
	baseScore          = 0.5
	ageFitBonus        = 0.1
	sameLanguageBonus  = 0.1
	interestBonusScale = 0.2
	maxScore           = 1.0
)

// ScoreCompatibility rates how well a and b fit each other on a scale from
// 0.5 to 1.0. Either preference record may be nil, which skips that side's
// age check. Missing or malformed profile data never fails the score; it
// only withholds the matching bonus.
func ScoreCompatibility(a, b *domain.User, prefsA, prefsB *domain.Preferences, now time.Time) float64 {
	score := baseScore

	if prefsA != nil {
		if age, ok := ApproximateAge(b.BirthDate, now); ok && prefsA.AcceptsAge(age) {
			score += ageFitBonus
		}
	}
	if prefsB != nil {
		if age, ok := ApproximateAge(a.BirthDate, now); ok && prefsB.AcceptsAge(age) {
			score += ageFitBonus
		}
	}

	if a.Language != "" && a.Language == b.Language {
		score += sameLanguageBonus
	}

	score += interestBonusScale * interestOverlap(a.Interests, b.Interests)

	return min(score, maxScore)
}

// interestOverlap returns |A ∩ B| / max(|A|, |B|) over the de-duplicated
// interest lists, or 0 when either list is empty or not a JSON string array.
func interestOverlap(rawA, rawB string) float64 {
	a := decodeStringSet(rawA)
	b := decodeStringSet(rawB)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for k := range a {
		if _, ok := b[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(a), len(b)))
}

func decodeStringSet(raw string) map[string]struct{} {
	list, err := decodeStringList(raw)
	if err != nil {
		return nil
	}
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[s] = struct{}{}
	}
	return set
}

// decodeStringList parses a JSON array of strings. An empty input is an
// empty list.
func decodeStringList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func encodeStringList(list []string) (string, error) {
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}
