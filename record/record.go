// Package record parses share input records: a "keys" metadata object
// with the total share count n and threshold k, followed by one entry per
// share keyed by its decimal x-coordinate.
//
//	{
//	  "keys": {"n": 4, "k": 3},
//	  "1": {"base": "10", "value": "4"},
//	  "2": {"base": "2", "value": "111"}
//	}
//
// Records are read through a YAML node tree, so both JSON and YAML documents
// are accepted and entries keep their document order.
package record

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetadataKey is the top-level key holding n and k.
const MetadataKey = "keys"

// ErrMalformedInput is matched by every parse failure.
var ErrMalformedInput = errors.New("record: malformed input")

// Record is a parsed input record.
type Record struct {
	// N is the declared total number of shares.
	N int
	// K is the reconstruction threshold.
	K int
	// Entries holds the share entries in document order.
	Entries []Entry
}

// Entry is one share entry as written in the record.
type Entry struct {
	Key   string
	Base  string
	Value string
}

type metadata struct {
	N *int `yaml:"n"`
	K *int `yaml:"k"`
}

type entryBody struct {
	Base  *string `yaml:"base"`
	Value *string `yaml:"value"`
}

// X parses the entry key as the decimal x-coordinate.
func (e Entry) X() (*big.Int, error) {
	x, ok := new(big.Int).SetString(strings.TrimSpace(e.Key), 10)
	if !ok {
		return nil, fmt.Errorf("%w: share key %q is not a decimal integer", ErrMalformedInput, e.Key)
	}
	return x, nil
}

// Radix parses the entry base as a decimal integer.
func (e Entry) Radix() (int, error) {
	base, err := strconv.Atoi(strings.TrimSpace(e.Base))
	if err != nil {
		return 0, fmt.Errorf("%w: share %q has invalid base %q", ErrMalformedInput, e.Key, e.Base)
	}
	return base, nil
}

// ReadFile reads and parses the record at path.
func ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("record: failed to read %s: %w", path, err)
	}

	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rec, nil
}

// Parse parses a JSON or YAML record.
func Parse(data []byte) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedInput)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be an object", ErrMalformedInput)
	}

	rec := &Record{}
	var haveMeta bool
	seen := make(map[string]bool, len(root.Content)/2)

	// Mapping content alternates key and value nodes.
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		key := keyNode.Value

		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrMalformedInput, key)
		}
		seen[key] = true

		if key == MetadataKey {
			n, k, err := parseMetadata(valueNode)
			if err != nil {
				return nil, err
			}
			rec.N, rec.K = n, k
			haveMeta = true
			continue
		}

		entry, err := parseEntry(key, valueNode)
		if err != nil {
			return nil, err
		}
		rec.Entries = append(rec.Entries, entry)
	}

	if !haveMeta {
		return nil, fmt.Errorf("%w: missing %q object", ErrMalformedInput, MetadataKey)
	}

	return rec, nil
}

func parseMetadata(node *yaml.Node) (int, int, error) {
	if node.Kind != yaml.MappingNode {
		return 0, 0, fmt.Errorf("%w: %q must be an object", ErrMalformedInput, MetadataKey)
	}

	// Decode would truncate 1.5 into an int, so require integer scalars.
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]
		if (name == "n" || name == "k") && value.ShortTag() != "!!int" {
			return 0, 0, fmt.Errorf("%w: %q field %s must be an integer, got %q", ErrMalformedInput, MetadataKey, name, value.Value)
		}
	}

	var meta metadata
	if err := node.Decode(&meta); err != nil {
		return 0, 0, fmt.Errorf("%w: invalid %q object: %v", ErrMalformedInput, MetadataKey, err)
	}

	if meta.N == nil || meta.K == nil {
		return 0, 0, fmt.Errorf("%w: %q requires integer n and k", ErrMalformedInput, MetadataKey)
	}

	n, k := *meta.N, *meta.K
	if k < 1 || n < k {
		return 0, 0, fmt.Errorf("%w: need 1 <= k <= n, got n=%d k=%d", ErrMalformedInput, n, k)
	}

	return n, k, nil
}

func parseEntry(key string, node *yaml.Node) (Entry, error) {
	if node.Kind != yaml.MappingNode {
		return Entry{}, fmt.Errorf("%w: share %q must be an object", ErrMalformedInput, key)
	}

	var body entryBody
	if err := node.Decode(&body); err != nil {
		return Entry{}, fmt.Errorf("%w: share %q: %v", ErrMalformedInput, key, err)
	}

	if body.Base == nil {
		return Entry{}, fmt.Errorf("%w: share %q is missing base", ErrMalformedInput, key)
	}

	if body.Value == nil || *body.Value == "" {
		return Entry{}, fmt.Errorf("%w: share %q is missing value", ErrMalformedInput, key)
	}

	entry := Entry{Key: key, Base: *body.Base, Value: *body.Value}

	if _, err := entry.X(); err != nil {
		return Entry{}, err
	}

	if _, err := entry.Radix(); err != nil {
		return Entry{}, err
	}

	return entry, nil
}
