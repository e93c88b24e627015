// Package langdetect guesses the language of a chat message, used as
// an opt-in fallback for senders who never ran /lang.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// Detector normalizes whatlanggo guesses to the short ISO 639-1 tags
// the rooms group by ("eng" -> "en").
type Detector struct{}

func New() *Detector {
	return &Detector{}
}

// Detect returns the language tag for text when the guess is reliable
// enough to act on.
func (d *Detector) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "", false
	}

	base, err := language.ParseBase(whatlanggo.LangToString(info.Lang))
	if err != nil {
		return "", false
	}
	return base.String(), true
}
