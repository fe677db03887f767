package x

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Split levels, coarsest first.
const (
	levelParagraph = iota
	levelSentence
	levelWord
	levelRune
)

// SplitThread splits text into tweets of at most limit characters,
// preferring paragraph, then sentence, then word boundaries. With number
// set and more than one part, each part ends in " i/n" and the suffix
// counts toward the limit. A limit of zero means MaxTweetLength.
func SplitThread(text string, limit int, number bool) ([]string, error) {
	if limit <= 0 {
		limit = MaxTweetLength
	}
	text = strings.TrimSpace(normaliseNewlines(text))
	if text == "" {
		return nil, fmt.Errorf("thread text is empty")
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}, nil
	}
	if !number {
		return splitLevel(text, limit, levelParagraph), nil
	}

	// The suffix width depends on the part count, which depends on the
	// suffix width; grow the reserved digits until they fit.
	for digits := 1; ; digits++ {
		budget := limit - suffixWidth(digits)
		if budget < 1 {
			return nil, fmt.Errorf("limit %d is too small for numbered parts", limit)
		}
		parts := splitLevel(text, budget, levelParagraph)
		if len(strconv.Itoa(len(parts))) <= digits {
			n := len(parts)
			for i := range parts {
				parts[i] = fmt.Sprintf("%s %d/%d", parts[i], i+1, n)
			}
			return parts, nil
		}
	}
}

// suffixWidth is the widest " i/n" for an n of the given digit count.
func suffixWidth(digits int) int {
	return 2 + 2*digits
}

func splitLevel(text string, budget, level int) []string {
	if utf8.RuneCountInString(text) <= budget {
		return []string{text}
	}

	var pieces []string
	sep := " "
	switch level {
	case levelParagraph:
		pieces = splitParagraphs(text)
		sep = "\n\n"
	case levelSentence:
		pieces = splitSentences(text)
	case levelWord:
		pieces = strings.Fields(text)
	default:
		return splitRunes(text, budget)
	}

	var out []string
	current := ""
	for _, p := range pieces {
		if utf8.RuneCountInString(p) > budget {
			if current != "" {
				out = append(out, current)
				current = ""
			}
			out = append(out, splitLevel(p, budget, level+1)...)
			continue
		}
		if current == "" {
			current = p
			continue
		}
		if utf8.RuneCountInString(current)+utf8.RuneCountInString(sep)+utf8.RuneCountInString(p) <= budget {
			current += sep + p
			continue
		}
		out = append(out, current)
		current = p
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences cuts after runs of . ! ? that are followed by whitespace.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isTerminator(runes[j+1]) {
			j++
		}
		if j+1 < len(runes) && unicode.IsSpace(runes[j+1]) {
			if s := strings.TrimSpace(string(runes[start : j+1])); s != "" {
				out = append(out, s)
			}
			start = j + 1
		}
		i = j
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func splitRunes(text string, budget int) []string {
	runes := []rune(text)
	var out []string
	for len(runes) > budget {
		out = append(out, string(runes[:budget]))
		runes = runes[budget:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func normaliseNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
