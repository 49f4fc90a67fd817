package embedstore

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseRecord splits a corpus line into its word and vector. The word ends
// at the first whitespace; the rest must be exactly dim float tokens.
func ParseRecord(line string, dim uint64) (string, []float32, error) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx <= 0 {
		return "", nil, &RecordError{Text: line, Reason: "missing word separator"}
	}
	word := line[:idx]
	vec := make([]float32, 0, min(dim, 4096))
	for _, tok := range strings.Fields(line[idx:]) {
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return "", nil, &RecordError{Text: line, Reason: "invalid float " + strconv.Quote(tok), cause: err}
		}
		vec = append(vec, float32(v))
	}
	if uint64(len(vec)) != dim {
		return "", nil, &RecordError{
			Text:   line,
			Reason: "want " + strconv.FormatUint(dim, 10) + " components, got " + strconv.Itoa(len(vec)),
		}
	}
	return word, vec, nil
}

// parseIndexLine splits an index line into its word and blob offset.
func parseIndexLine(line string) (string, uint64, error) {
	word, rest, ok := strings.Cut(line, " ")
	if !ok || word == "" {
		return "", 0, &RecordError{Text: line, Reason: "missing word separator"}
	}
	off, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 64)
	if err != nil {
		return "", 0, &RecordError{Text: line, Reason: "invalid offset", cause: err}
	}
	return word, off, nil
}
