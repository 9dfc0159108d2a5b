package ai

import (
	"fmt"
	"strings"
)

const (
	PurposeTranslation = "translation"
	PurposeAcademic    = "academic"
)

const defaultLanguagePair = "en-vi"

var languageNames = map[string]string{
	"en": "English",
	"vi": "Vietnamese",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
}

// DeckConfig is the authoring context of the deck a card is generated for.
type DeckConfig struct {
	LanguagePair           string `json:"languagePair"`
	TranslationDescription string `json:"translationDescription"`
	AcademicDescription    string `json:"academicDescription"`
}

// Languages splits the "source-target" pair, defaulting to English to Vietnamese.
func (that DeckConfig) Languages() (string, string) {
	pair := that.LanguagePair
	if pair == "" {
		pair = defaultLanguagePair
	}

	source, target, found := strings.Cut(pair, "-")
	if !found || target == "" {
		_, target, _ = strings.Cut(defaultLanguagePair, "-")
	}

	return source, target
}

// Description is the deck description matching purpose.
func (that DeckConfig) Description(purpose string) string {
	switch purpose {
	case PurposeTranslation:
		return that.TranslationDescription
	case PurposeAcademic:
		return that.AcademicDescription
	default:
		return ""
	}
}

// LanguageName falls back to the code itself for unknown languages.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}

	return code
}

func systemPrompt(purpose string, deckConfig DeckConfig, tags []string, instructions string) string {
	var prompt strings.Builder

	switch purpose {
	case PurposeTranslation:
		source, target := deckConfig.Languages()
		fmt.Fprintf(&prompt, "You are a translation expert creating flashcards from %s to %s.", LanguageName(source), LanguageName(target))
		fmt.Fprintf(&prompt, " The front is a word or phrase in %s and the back is its translation in %s.", LanguageName(source), LanguageName(target))

		if len(tags) > 0 {
			fmt.Fprintf(&prompt, " Tags: %s.", strings.Join(tags, ", "))
		}
	case PurposeAcademic:
		prompt.WriteString("You are a teacher creating study flashcards.")
	}

	if description := deckConfig.Description(purpose); description != "" {
		fmt.Fprintf(&prompt, " Deck description: %s.", description)
	}

	if instructions != "" {
		prompt.WriteString(" ")
		prompt.WriteString(instructions)
	}

	return strings.TrimSpace(prompt.String())
}

func generateCardsInstructions(purpose string, deckConfig DeckConfig, description string, count int) string {
	var prompt strings.Builder

	if description != "" {
		fmt.Fprintf(&prompt, "Create %d flashcards based on the description: %q.", count, description)
	} else {
		fmt.Fprintf(&prompt, "Create %d flashcards.", count)
	}

	prompt.WriteString(" Every card must cover a different concept; no duplicates or near-duplicates.")

	if purpose == PurposeTranslation {
		source, target := deckConfig.Languages()
		fmt.Fprintf(&prompt, " Each front is a %s word or phrase and each back its %s translation.", LanguageName(source), LanguageName(target))
		prompt.WriteString(" Do not produce variants or synonyms of the same word.")
	} else {
		prompt.WriteString(" Each card has a front and a back about a distinct concept, formula or fact.")
	}

	prompt.WriteString(` Return only a JSON array in the format [{"front": "...", "back": "..."}].`)

	return prompt.String()
}

func translatePrompts(deckConfig DeckConfig, text string) (string, string) {
	source, target := deckConfig.Languages()

	system := fmt.Sprintf(
		"You are a translation expert. Translate text from %s to %s. Return only the translation, without labels such as \"Front:\" or \"Back:\" and without explanations.",
		LanguageName(source), LanguageName(target),
	)
	user := fmt.Sprintf("Translate to %s: %q", LanguageName(target), text)

	return system, user
}
