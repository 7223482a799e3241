package integration

import (
	"io"

	"github.com/wcharczuk/roleprov/internal/spy"
)

// WriteAndNormalizeOutput writes each request as a json line with the
// values that vary between runs replaced.
func WriteAndNormalizeOutput(output io.Writer) func(spy.Request) {
	write := spy.WriteOutput(output)
	return func(req spy.Request) {
		write(normalizeRequest(req))
	}
}
