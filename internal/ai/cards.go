package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DuplicateThreshold is the word-overlap similarity from which two cards count as duplicates.
const DuplicateThreshold = 0.7

var fencedArray = regexp.MustCompile("```(?:json)?\\s*(\\[[\\s\\S]*\\])\\s*```")

// CardDraft is a generated card that has not been saved to a deck yet.
type CardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ParseCards reads the JSON array in a completion, optionally fenced as a code block.
// Anything else becomes one card per non-empty line. At most count cards are returned.
func ParseCards(content string, count int) []CardDraft {
	payload := content
	if match := fencedArray.FindStringSubmatch(content); match != nil {
		payload = match[1]
	}

	var cards []CardDraft
	if err := json.Unmarshal([]byte(payload), &cards); err != nil {
		cards = cardsFromLines(content, count)
	}

	if len(cards) > count {
		cards = cards[:count]
	}

	return cards
}

func cardsFromLines(content string, count int) []CardDraft {
	cards := make([]CardDraft, 0, count)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if len(cards) == count {
			break
		}

		cards = append(cards, CardDraft{
			Front: fmt.Sprintf("Card %d", len(cards)+1),
			Back:  line,
		})
	}

	return cards
}

// Similarity is the Jaccard index of the word sets of a and b, ignoring case and spacing.
func Similarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	if a == b {
		return 1
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)

	intersection := 0
	for word := range wordsA {
		if wordsB[word] {
			intersection++
		}
	}

	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// RemoveDuplicateCards keeps the first of every group of similar cards and drops incomplete ones.
// Fronts and backs are compared with each other as well as crosswise.
func RemoveDuplicateCards(cards []CardDraft) []CardDraft {
	unique := make([]CardDraft, 0, len(cards))

	for _, card := range cards {
		if card.Front == "" || card.Back == "" {
			continue
		}

		duplicate := false
		for _, existing := range unique {
			if isSimilar(card, existing) {
				duplicate = true
				break
			}
		}

		if !duplicate {
			unique = append(unique, card)
		}
	}

	return unique
}

func isSimilar(card, existing CardDraft) bool {
	return Similarity(card.Front, existing.Front) >= DuplicateThreshold ||
		Similarity(card.Back, existing.Back) >= DuplicateThreshold ||
		Similarity(card.Front, existing.Back) >= DuplicateThreshold ||
		Similarity(card.Back, existing.Front) >= DuplicateThreshold
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func wordSet(text string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.Fields(text) {
		words[word] = true
	}

	return words
}
