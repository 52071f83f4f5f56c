// Package chunk splits long text into line-aligned segments that fit a
// character budget, and reassembles per-segment outputs into one result.
// Segments are what we send to the model one at a time; the budget keeps
// each request under the prompt-size limit.
package chunk

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidBudget is returned when Split is called with a non-positive budget.
var ErrInvalidBudget = errors.New("chunk: budget must be a positive number of characters")

// Split cuts text into ordered chunks of at most budget characters each,
// never breaking inside a line. The budget counts characters (runes), not
// bytes, matching how downstream prompt limits are configured.
//
// Guarantees:
//   - concatenating the returned chunks reproduces text exactly
//   - a chunk spanning more than one line never exceeds budget
//   - a single line longer than budget becomes its own chunk, untouched
//   - empty text yields a single empty chunk
func Split(text string, budget int) ([]string, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	if utf8.RuneCountInString(text) <= budget {
		return []string{text}, nil
	}

	var (
		chunks []string
		buf    strings.Builder
		bufLen int
	)
	for _, line := range splitAfterNewlines(text) {
		n := utf8.RuneCountInString(line)
		if bufLen+n > budget && bufLen > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
			bufLen = 0
		}
		// Append unconditionally: an oversized line is emitted whole on the
		// next flush rather than being split mid-line.
		buf.WriteString(line)
		bufLen += n
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks, nil
}

// splitAfterNewlines splits text into lines, each keeping its trailing
// newline. The final line may lack a terminator. A trailing newline does not
// produce an extra empty line.
func splitAfterNewlines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
