package chunk

import (
	"fmt"
	"strings"
)

// Reassemble joins per-chunk model outputs, in order, into one result.
//
// With a single output it is returned trimmed, unlabeled. With several, each
// non-empty output gets a "[part i of n]" header so the reader can tell the
// result was stitched from independently translated segments; empty outputs
// are dropped instead of leaving a blank placeholder.
func Reassemble(outputs []string) string {
	if len(outputs) == 0 {
		return ""
	}
	if len(outputs) == 1 {
		return strings.TrimSpace(outputs[0])
	}

	total := len(outputs)
	sections := make([]string, 0, total)
	for i, out := range outputs {
		out = strings.TrimSpace(out)
		if out == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("[part %d of %d]\n%s", i+1, total, out))
	}
	return strings.Join(sections, "\n\n")
}
