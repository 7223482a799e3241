package integration

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/wcharczuk/roleprov/internal/httputil"
	"github.com/wcharczuk/roleprov/internal/iamlite"
	"github.com/wcharczuk/roleprov/internal/spy"
)

const (
	normalizedRequestID = "00000000-0000-0000-0000-000000000000"
	normalizedTimestamp = "1970-01-01T00:00:00Z"
)

var normalizedRoleID = iamlite.RoleIDPrefix + strings.Repeat("X", iamlite.RoleIDSuffixLength)

func normalizeRequest(req spy.Request) spy.Request {
	req.ResponseBody = normalizeRequestIDs(req.ResponseBody)
	req.ResponseBody = normalizeRoleIDs(req.ResponseBody)
	req.ResponseBody = normalizeTimestamps(req.ResponseBody)
	req.ResponseBody = normalizeRoleARNs(req.ResponseBody)
	if _, ok := req.ResponseHeaders[httputil.HeaderXAmznRequestID]; ok {
		req.ResponseHeaders[httputil.HeaderXAmznRequestID] = normalizedRequestID
	}
	return req
}

func normalizeRequestIDs(corpus string) string {
	return regexpRequestID.ReplaceAllString(corpus, fmt.Sprintf("<RequestId>%s</RequestId>", normalizedRequestID))
}

var regexpRequestID = regexp.MustCompile(`<RequestId>[0-9a-fA-F-]+<\/RequestId>`)

func normalizeRoleIDs(corpus string) string {
	return regexpRoleID.ReplaceAllString(corpus, normalizedRoleID)
}

var regexpRoleID = regexp.MustCompile(`AROA[0-9A-Z]{17}`)

func normalizeTimestamps(corpus string) string {
	return regexpTimestamp.ReplaceAllString(corpus, normalizedTimestamp)
}

var regexpTimestamp = regexp.MustCompile(`[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?Z`)

func normalizeRoleARNs(corpus string) string {
	return regexpRoleARN.ReplaceAllString(corpus, fmt.Sprintf("arn:$1:iam::%s:role", iamlite.DefaultAccountID))
}

var regexpRoleARN = regexp.MustCompile(`arn:(aws[a-z-]*):iam::([0-9A-Z]+):role`)

// canonicalXML re-encodes an xml document with whitespace between elements
// dropped and a fixed indentation.
func canonicalXML(corpus string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(corpus))
	output := new(bytes.Buffer)
	encoder := xml.NewEncoder(output)
	encoder.Indent("", "  ")
	for {
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch typed := token.(type) {
		case xml.ProcInst, xml.Comment, xml.Directive:
			continue
		case xml.CharData:
			if len(bytes.TrimSpace(typed)) == 0 {
				continue
			}
		}
		if err := encoder.EncodeToken(xml.CopyToken(token)); err != nil {
			return "", err
		}
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return output.String(), nil
}
