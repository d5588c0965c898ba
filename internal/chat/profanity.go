package chat

import "strings"

// Profanity is the censor collaborator messages are checked against.
type Profanity interface {
	Validate(text string) (containsProfanity bool, cleaned string)
}

// WordlistProfanity is a case-insensitive word-boundary censor. Nothing
// in the retrieved example pack attests a third-party profanity library,
// so this one surface is built on the standard library — see DESIGN.md.
type WordlistProfanity struct {
	words map[string]struct{}
}

func NewWordlistProfanity(words []string) *WordlistProfanity {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &WordlistProfanity{words: set}
}

func (p *WordlistProfanity) Validate(text string) (bool, string) {
	if len(p.words) == 0 {
		return false, text
	}
	found := false
	fields := strings.Fields(text)
	for i, f := range fields {
		bare := strings.Trim(f, ".,!?;:\"'")
		if _, ok := p.words[strings.ToLower(bare)]; ok {
			found = true
			fields[i] = strings.Repeat("*", len(bare))
		}
	}
	if !found {
		return false, text
	}
	return true, strings.Join(fields, " ")
}
