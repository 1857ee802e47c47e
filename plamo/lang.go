package plamo

import "strings"

const (
	LangJapanese = "Japanese"
	LangEnglish  = "English"
)

var (
	japaneseAliases = []string{"japanese", "ja", "jp"}
	englishAliases  = []string{"english", "en"}
)

// ResolveLangPair maps a case-insensitive language alias of the input text to
// a (source, target) pair for Japanese<->English translation.
func ResolveLangPair(textLang string) (string, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(textLang))

	for _, alias := range japaneseAliases {
		if normalized == alias {
			return LangJapanese, LangEnglish, nil
		}
	}
	for _, alias := range englishAliases {
		if normalized == alias {
			return LangEnglish, LangJapanese, nil
		}
	}

	return "", "", &InvalidArgumentError{
		Name:    "text language",
		Value:   textLang,
		Allowed: append(append([]string{}, japaneseAliases...), englishAliases...),
	}
}
