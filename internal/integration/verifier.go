package integration

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sync"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/wcharczuk/roleprov/internal/httputil"
	"github.com/wcharczuk/roleprov/internal/spy"
)

// NewVerifier returns a verifier that compares captured requests against the
// recording at a given path, in order.
func NewVerifier(sourceFile string) (*Verifier, error) {
	f, err := os.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("unable to open verifier source file for read: %w", err)
	}
	return &Verifier{
		sourceFile: f,
		scanner:    bufio.NewScanner(f),
	}, nil
}

type Verifier struct {
	mu         sync.Mutex
	sourceFile *os.File
	scanner    *bufio.Scanner
	failures   []*VerificationFailure
}

func (v *Verifier) Close() error {
	return v.sourceFile.Close()
}

// HandleRequest verifies a captured request against the next recorded one.
func (v *Verifier) HandleRequest(actualReq spy.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()
	expectedReq, ok := v.getNextExpectedResult()
	if !ok {
		v.failures = append(v.failures, &VerificationFailure{
			Actual:  normalizeRequest(actualReq),
			Message: "unexpected actual request",
		})
		return
	}
	if failure := v.verifyRequest(expectedReq, normalizeRequest(actualReq)); failure != nil {
		slog.Error("verification failure", slog.String("message", failure.Message))
		v.failures = append(v.failures, failure)
	}
}

// Finish returns the first verification failure, including recorded requests
// that were never made.
func (v *Verifier) Finish() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.failures) > 0 {
		return v.failures[0]
	}
	if expectedReq, ok := v.getNextExpectedResult(); ok {
		return &VerificationFailure{
			Expected: expectedReq,
			Message:  "missing expected request",
		}
	}
	return nil
}

// Response headers whose recorded values must be reproduced exactly.
var matchedResponseHeaders = []string{
	httputil.HeaderContentType,
}

// Response headers whose values vary per call and only need to be present.
var presentResponseHeaders = []string{
	httputil.HeaderXAmznRequestID,
}

// verifyCheck compares one aspect of an exchange and returns a message
// describing the difference, or an empty string if it matches.
type verifyCheck func(expected, actual spy.Request) string

var verifyChecks = []verifyCheck{
	verifyMethod,
	verifyAction,
	verifyStatusCode,
	verifyResponseHeaders,
	verifyResponseBody,
}

func (v *Verifier) verifyRequest(expectedReq, actualReq spy.Request) *VerificationFailure {
	for _, check := range verifyChecks {
		if message := check(expectedReq, actualReq); message != "" {
			return &VerificationFailure{
				Expected: expectedReq,
				Actual:   actualReq,
				Message:  message,
			}
		}
	}
	return nil
}

func verifyMethod(expected, actual spy.Request) string {
	if expected.Method != actual.Method {
		return fmt.Sprintf("expected http verb %q, got %q", expected.Method, actual.Method)
	}
	return ""
}

func verifyAction(expected, actual spy.Request) string {
	if expectedAction, actualAction := requestAction(expected), requestAction(actual); expectedAction != actualAction {
		return fmt.Sprintf("expected action %q, got %q", expectedAction, actualAction)
	}
	return ""
}

func verifyStatusCode(expected, actual spy.Request) string {
	if expected.StatusCode != actual.StatusCode {
		return fmt.Sprintf("expected status code %d, got %d", expected.StatusCode, actual.StatusCode)
	}
	return ""
}

func verifyResponseHeaders(expected, actual spy.Request) string {
	for _, key := range matchedResponseHeaders {
		expectedValue, recorded := expected.ResponseHeaders[key]
		if !recorded {
			continue
		}
		actualValue, ok := actual.ResponseHeaders[key]
		if !ok {
			return fmt.Sprintf("missing actual response header value for key %q", key)
		}
		if expectedValue != actualValue {
			return fmt.Sprintf("response header value for key %q differs; expected %q, got %q", key, expectedValue, actualValue)
		}
	}
	for _, key := range presentResponseHeaders {
		if _, recorded := expected.ResponseHeaders[key]; !recorded {
			continue
		}
		if _, ok := actual.ResponseHeaders[key]; !ok {
			return fmt.Sprintf("missing actual response header value for key %q", key)
		}
	}
	return ""
}

func verifyResponseBody(expected, actual spy.Request) string {
	expectedBody, err := canonicalXML(expected.ResponseBody)
	if err != nil {
		return fmt.Sprintf("unable to parse expected response body: %v", err)
	}
	actualBody, err := canonicalXML(actual.ResponseBody)
	if err != nil {
		return fmt.Sprintf("unable to parse actual response body: %v", err)
	}
	if expectedBody != actualBody {
		return diffBodies(expectedBody, actualBody)
	}
	return ""
}

func (v *Verifier) getNextExpectedResult() (expectedReq spy.Request, ok bool) {
	ok = v.scanner.Scan()
	if !ok {
		return
	}
	line := v.scanner.Text()
	_ = json.Unmarshal([]byte(line), &expectedReq)
	return
}

func requestAction(req spy.Request) string {
	form, _ := url.ParseQuery(req.RequestBody)
	return form.Get("Action")
}

type VerificationFailure struct {
	Actual   spy.Request
	Expected spy.Request
	Message  string
}

func (v VerificationFailure) Error() string {
	if v.Message != "" {
		return fmt.Sprintf("verification failure: %s", v.Message)
	}
	return "verification failure"
}

func diffBodies(expected, actual string) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	return diff
}
