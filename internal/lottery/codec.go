package lottery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Events are encoded as {prob: p, out: x}, where out is either a number or a
// list of events. The same shape is used for JSON and YAML.

// eventDoc is the encoded form of an Event.
type eventDoc struct {
	Prob float64 `json:"prob" yaml:"prob"`
	Out  any     `json:"out" yaml:"out"`
}

func (ev Event) doc() (eventDoc, error) {
	switch out := ev.Out.(type) {
	case Payoff:
		return eventDoc{Prob: ev.Prob, Out: float64(out)}, nil
	case SubLottery:
		return eventDoc{Prob: ev.Prob, Out: Lottery(out)}, nil
	default:
		return eventDoc{}, fmt.Errorf("unknown outcome type: %T", ev.Out)
	}
}

// MarshalJSON implements json.Marshaler for Event.
func (ev Event) MarshalJSON() ([]byte, error) {
	d, err := ev.doc()
	if err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// UnmarshalJSON implements json.Unmarshaler for Event.
// Unknown keys and missing prob/out are rejected.
func (ev *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		Prob *float64       `json:"prob"`
		Out  json.RawMessage `json:"out"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("event: %w", err)
	}
	if raw.Prob == nil {
		return fmt.Errorf("event: prob is required")
	}
	out, err := unmarshalOutcomeJSON(raw.Out)
	if err != nil {
		return err
	}
	*ev = Event{Prob: *raw.Prob, Out: out}
	return nil
}

// unmarshalOutcomeJSON decodes a JSON value into the matching Outcome.
// Arrays become SubLottery, numbers become Payoff.
func unmarshalOutcomeJSON(data json.RawMessage) (Outcome, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("event: out is required")
	}

	switch data[0] {
	case '[':
		var sub Lottery
		if err := json.Unmarshal(data, &sub); err != nil {
			return nil, err
		}
		return SubLottery(sub), nil
	case '"', '{', 't', 'f':
		return nil, fmt.Errorf("event: out must be a number or a list of events, got %s", string(data))
	default:
		var x float64
		if err := json.Unmarshal(data, &x); err != nil {
			return nil, fmt.Errorf("event: out: %w", err)
		}
		return Payoff(x), nil
	}
}

// MarshalYAML implements yaml.Marshaler for Event.
func (ev Event) MarshalYAML() (any, error) {
	return ev.doc()
}

// UnmarshalYAML implements yaml.Unmarshaler for Event.
func (ev *Event) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: event must be a mapping", node.Line)
	}

	var (
		prob    float64
		out     Outcome
		hasProb bool
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "prob":
			if err := val.Decode(&prob); err != nil {
				return fmt.Errorf("line %d: prob: %w", val.Line, err)
			}
			hasProb = true
		case "out":
			o, err := unmarshalOutcomeYAML(val)
			if err != nil {
				return err
			}
			out = o
		default:
			return fmt.Errorf("line %d: unknown event field %q", key.Line, key.Value)
		}
	}

	if !hasProb {
		return fmt.Errorf("line %d: event: prob is required", node.Line)
	}
	if out == nil {
		return fmt.Errorf("line %d: event: out is required", node.Line)
	}
	*ev = Event{Prob: prob, Out: out}
	return nil
}

func unmarshalOutcomeYAML(node *yaml.Node) (Outcome, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		var sub Lottery
		if err := node.Decode(&sub); err != nil {
			return nil, err
		}
		return SubLottery(sub), nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, fmt.Errorf("line %d: event: out is required", node.Line)
		}
		var x float64
		if err := node.Decode(&x); err != nil {
			return nil, fmt.Errorf("line %d: out must be a number or a list of events: %w", node.Line, err)
		}
		return Payoff(x), nil
	default:
		return nil, fmt.Errorf("line %d: out must be a number or a list of events", node.Line)
	}
}

// Catalog is the file format for a list of named lotteries.
//
//	lotteries:
//	  - name: coin
//	    events:
//	      - {prob: 0.5, out: 100}
//	      - {prob: 0.5, out: [{prob: 1.0, out: 10}]}
type Catalog struct {
	Lotteries []Named `yaml:"lotteries" json:"lotteries"`
}

// DecodeCatalog parses a YAML (or JSON) catalog.
// Unknown fields are rejected; names are NFC normalized and must be unique.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty catalog")
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Lotteries))
	for i := range c.Lotteries {
		name := NormalizeName(c.Lotteries[i].Name)
		if name == "" {
			return nil, fmt.Errorf("lotteries[%d]: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("lotteries[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
		c.Lotteries[i].Name = name
	}
	return &c, nil
}

// EncodeCatalog writes c as YAML.
func EncodeCatalog(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}

// NormalizeName returns the NFC form of a lottery name, so that visually
// identical names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
