
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidArgument marks errors caused by bad caller input. Such errors are
// always returned before any upstream request is made.
var ErrInvalidArgument = errors.New("invalid argument")

// Identifier selects how a monomer is named when talking to the upstream database.
type Identifier string

const (
	IdentifierName         Identifier = "name"
	IdentifierSMILES       Identifier = "SMILES"
	IdentifierCAS          Identifier = "CAS"
	IdentifierInChI        Identifier = "InChI"
	IdentifierInChIKey     Identifier = "InChIKey"
	IdentifierAbbreviation Identifier = "abbreviation"
)

// Identifiers lists every identifier accepted upstream, in display order.
var Identifiers = []Identifier{
	IdentifierName,
	IdentifierSMILES,
	IdentifierCAS,
	IdentifierInChI,
	IdentifierInChIKey,
	IdentifierAbbreviation,
}

type InvalidIdentifierError struct {
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	names := make([]string, len(Identifiers))
	for i, id := range Identifiers {
		names[i] = string(id)
	}
	return fmt.Sprintf("invalid identifier (%s), use one of [%s]", e.Value, strings.Join(names, ", "))
}

func (e *InvalidIdentifierError) Is(target error) bool { return target == ErrInvalidArgument }

// ParseIdentifier matches s exactly (case sensitive) against Identifiers.
func ParseIdentifier(s string) (Identifier, error) {
	for _, id := range Identifiers {
		if string(id) == s {
			return id, nil
		}
	}
	return "", &InvalidIdentifierError{Value: s}
}

// Value is a table cell after normalization: either raw text or a number.
type Value struct {
	text  string
	num   float64
	isNum bool
}

func Text(s string) Value { return Value{text: s} }
func Number(f float64) Value { return Value{num: f, isNum: true} }
func (v Value) IsNumber() bool { return v.isNum }

// Float returns the numeric value and whether v holds one.
func (v Value) Float() (float64, bool) { return v.num, v.isNum }

func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("value must be a string or a number: %w", err)
	}
	*v = Text(s)
	return nil
}

// Ordered is a string-keyed map that remembers insertion order. Upstream
// tables and option lists are ordered, and JSON output keeps that order.
type Ordered[V any] struct {
	keys   []string
	values map[string]V
}

// Set inserts or overwrites key. Overwriting keeps the original position.
func (o *Ordered[V]) Set(key string, v V) {
	if o.values == nil {
		o.values = make(map[string]V)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o Ordered[V]) Get(key string) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o Ordered[V]) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o Ordered[V]) Len() int { return len(o.keys) }

// Each calls fn for every entry in insertion order.
func (o Ordered[V]) Each(fn func(key string, v V)) {
	for _, k := range o.keys {
		fn(k, o.values[k])
	}
}

func (o Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Ordered[V]) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	*o = Ordered[V]{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		o.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

// InfoRecord maps table header text to the matching cell of one solution.
type InfoRecord = Ordered[Value]

// CoefficientTable maps a solution label to its info record.
type CoefficientTable = Ordered[InfoRecord]

// CoefficientSet maps a coefficient name (only "kp" today) to its table.
type CoefficientSet map[string]CoefficientTable

// KpResult maps a solution label to a computed propagation rate constant.
type KpResult = Ordered[float64]
