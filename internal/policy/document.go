package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Version20121017 is the current policy language version.
const Version20121017 = "2012-10-17"

// Version20081017 is the legacy policy language version IAM still accepts.
const Version20081017 = "2008-10-17"

// Effect is the effect of a statement.
type Effect string

// Effect values.
const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// Document is an IAM policy document.
//
// Fields serialize in declaration order so that a document built from
// the same inputs always renders to the same bytes.
type Document struct {
	Version   string        `json:"Version"`
	ID        string        `json:"Id,omitempty"`
	Statement StatementList `json:"Statement"`
}

// Marshal returns the compact json form of the document.
func (d Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// MarshalIndent returns the indented json form of the document, used for display.
func (d Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Parse parses a policy document.
func Parse(data []byte) (doc Document, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&doc); err != nil {
		err = fmt.Errorf("policy; invalid document: %w", err)
		return
	}
	if dec.More() {
		err = fmt.Errorf("policy; invalid document: trailing data")
	}
	return
}

// Statement is a single policy statement.
type Statement struct {
	Sid       string                      `json:"Sid,omitempty"`
	Effect    Effect                      `json:"Effect"`
	Principal *Principal                  `json:"Principal,omitempty"`
	Action    Value                       `json:"Action,omitempty"`
	Resource  Value                       `json:"Resource,omitempty"`
	Condition map[string]map[string]Value `json:"Condition,omitempty"`
}

// StatementList is the statement block of a document.
//
// IAM accepts either a single statement object or a list of them.
type StatementList []Statement

// UnmarshalJSON implements [json.Unmarshaler].
func (sl *StatementList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single Statement
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*sl = StatementList{single}
		return nil
	}
	var many []Statement
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*sl = StatementList(many)
	return nil
}

// Principal names who a statement applies to.
type Principal struct {
	// Wildcard is set for the bare "*" principal.
	Wildcard  bool  `json:"-"`
	AWS       Value `json:"AWS,omitempty"`
	Service   Value `json:"Service,omitempty"`
	Federated Value `json:"Federated,omitempty"`
}

type principalFields Principal

// MarshalJSON implements [json.Marshaler].
func (p Principal) MarshalJSON() ([]byte, error) {
	if p.Wildcard {
		return []byte(`"*"`), nil
	}
	return json.Marshal(principalFields(p))
}

// UnmarshalJSON implements [json.Unmarshaler].
func (p *Principal) UnmarshalJSON(data []byte) error {
	var wildcard string
	if err := json.Unmarshal(data, &wildcard); err == nil {
		if wildcard != "*" {
			return fmt.Errorf("policy; invalid principal: %q", wildcard)
		}
		*p = Principal{Wildcard: true}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var fields principalFields
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("policy; invalid principal: %w", err)
	}
	*p = Principal(fields)
	return nil
}

// Value is a policy element that may be written as a single string or a list of strings.
//
// A single value serializes as a plain string.
type Value []string

// MarshalJSON implements [json.Marshaler].
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	return json.Marshal([]string(v))
}

// UnmarshalJSON implements [json.Unmarshaler].
func (v *Value) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = Value{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("policy; value must be a string or a list of strings: %w", err)
	}
	*v = Value(many)
	return nil
}
