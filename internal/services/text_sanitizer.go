package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Keeps \t, \n and \r.
	controlCharsRegex     = regexp.MustCompile(`[\x00-\x08\x0B-\x0C\x0E-\x1F\x7F]`)
	zeroWidthRegex        = regexp.MustCompile(`[\x{200B}-\x{200F}\x{FEFF}\x{00A0}]`)
	lineSeparatorRegex    = regexp.MustCompile(`[\x{2028}\x{2029}\x{0085}]`)
	repetitiveSymbolRegex = regexp.MustCompile(`[!@#$%^&*()_+={}\[\]|\\:;"'<>,?/~` + "`" + `]{4,}`)
	horizontalSpaceRegex  = regexp.MustCompile(`[ \t]{2,}`)
	excessiveNewlineRegex = regexp.MustCompile(`\n{3,}`)
	htmlTagRegex          = regexp.MustCompile(`<[^>]*>`)
	htmlEntityReplacer    = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&apos;", "'",
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// TextSanitizer cleans extracted document text before it is sent to a model.
// PDF and OCR output in particular carries control characters, invisible
// spacing and runs of symbol noise.
type TextSanitizer struct{}

func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{}
}

func (ts *TextSanitizer) SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, " ")
	}

	sanitized := strings.ReplaceAll(text, "\r\n", "\n")
	sanitized = controlCharsRegex.ReplaceAllString(sanitized, "")
	sanitized = zeroWidthRegex.ReplaceAllString(sanitized, " ")
	sanitized = lineSeparatorRegex.ReplaceAllString(sanitized, "\n")
	sanitized = repetitiveSymbolRegex.ReplaceAllString(sanitized, " ")
	sanitized = horizontalSpaceRegex.ReplaceAllString(sanitized, " ")
	sanitized = excessiveNewlineRegex.ReplaceAllString(sanitized, "\n\n")

	return strings.TrimSpace(sanitized)
}

// StripMarkup removes HTML tags and common entities, for model output that
// sometimes comes back formatted.
func (ts *TextSanitizer) StripMarkup(text string) string {
	stripped := htmlTagRegex.ReplaceAllString(text, "")
	stripped = htmlEntityReplacer.Replace(stripped)
	return strings.TrimSpace(stripped)
}

// Truncate cuts text to at most limit runes.
func (ts *TextSanitizer) Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

// Printable reports the share of printable runes, used to flag garbage extractions.
func (ts *TextSanitizer) Printable(text string) float64 {
	total, printable := 0, 0
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}
