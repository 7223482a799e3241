package policy

import (
	"bytes"
	"encoding/json"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff between two serialized documents.
//
// Both sides are re-indented first so that compact documents produce a
// line oriented diff; input that is not valid json is compared as is.
// An empty string means the documents are equivalent line for line.
func Diff(from, to []byte, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(indentOrRaw(from)),
		B:        difflib.SplitLines(indentOrRaw(to)),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}

func indentOrRaw(data []byte) string {
	buf := new(bytes.Buffer)
	if err := json.Indent(buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return string(data)
	}
	buf.WriteByte('\n')
	return buf.String()
}
