package ai

import (
	"strings"
	"unicode/utf8"
)

const (
	subjectMaxLen   = 70
	subjectFallback = "Customer update"
	subjectMaxWords = 8
)

// CompressToSubject сжимает тело письма в короткую тему (1-70 символов):
// берется текст до первой точки либо первые 8 слов, обрезается висячая
// пунктуация, первая буква переводится в верхний регистр.
func CompressToSubject(body string) string {
	raw := strings.ReplaceAll(strings.TrimSpace(body), "\n", " ")

	var first string
	if idx := strings.Index(raw, "."); idx >= 0 {
		first = raw[:idx]
	} else {
		words := strings.Fields(raw)
		if len(words) > subjectMaxWords {
			words = words[:subjectMaxWords]
		}
		first = strings.Join(words, " ")
	}

	candidate := capitalizeFirst(strings.Trim(first, " .!?:;"))

	if utf8.RuneCountInString(candidate) > subjectMaxLen {
		runes := []rune(candidate)
		candidate = strings.TrimRight(string(runes[:subjectMaxLen-3]), " ") + "..."
	}

	if candidate == "" {
		return subjectFallback
	}

	return candidate
}

// capitalizeFirst переводит в верхний регистр только первую букву,
// остальной текст не меняется
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}
