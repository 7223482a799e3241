package spy

import (
	"encoding/json"
	"io"
	"sync"
)

// WriteOutput returns a function that performs an interlocked write of
// each request as a json line to a given output.
func WriteOutput(output io.Writer) func(Request) {
	encoderMu := &sync.Mutex{}
	encoder := json.NewEncoder(output)
	return func(details Request) {
		encoderMu.Lock()
		defer encoderMu.Unlock()
		_ = encoder.Encode(details)
	}
}
