package plamo

import "strings"

// StopMarker is the PLaMo control token. It delimits the sections of a
// translation prompt and doubles as the completion stop sequence.
const StopMarker = "<|plamo:op|>"

// ReservedMarker prefixes the placeholder tokens the model sometimes emits
// instead of a translation.
const ReservedMarker = "<|plamo:reserved"

// BuildPrompt renders text in the plamo-2-translate dataset format.
//
// text is copied verbatim and must not contain StopMarker; this is not checked.
func BuildPrompt(text, srcLang, tgtLang string, blankLineAfterHeader bool) string {
	lines := []string{
		StopMarker + "dataset",
		"translation",
	}
	if blankLineAfterHeader {
		lines = append(lines, "")
	}
	lines = append(lines,
		StopMarker+"input lang="+srcLang,
		text,
		StopMarker+"output lang="+tgtLang,
		"",
	)

	return strings.Join(lines, "\n")
}
