package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// NapiVersionsKey is the reserved binary key listing supported N-API revisions.
const NapiVersionsKey = "napi_versions"

// ModulePathKey is the binary key resolved against the module root before substitution.
const ModulePathKey = "module_path"

// Manifest is the subset of package.json the rebuild needs.
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	Binary               BinaryConfig      `json:"binary"`
}

// BinaryEntry is one key of the manifest's binary block.
type BinaryEntry struct {
	Key   string
	Value string
	// List holds the elements of a list-valued key such as napi_versions.
	List []string
}

// BinaryConfig is the binary block in declaration order.
type BinaryConfig []BinaryEntry

// Lookup returns the entry for key.
func (b BinaryConfig) Lookup(key string) (BinaryEntry, bool) {
	for _, e := range b {
		if e.Key == key {
			return e, true
		}
	}
	return BinaryEntry{}, false
}

// UnmarshalJSON decodes the binary object keeping key order.
func (b *BinaryConfig) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return zerr.With(zerr.New("binary must be an object"), "token", fmt.Sprint(tok))
	}

	var entries BinaryConfig
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return zerr.With(zerr.Wrap(err, "invalid binary value"), "key", key)
		}
		entries = append(entries, decodeBinaryValue(key, raw))
	}

	*b = entries
	return nil
}

func decodeBinaryValue(key string, raw json.RawMessage) BinaryEntry {
	entry := BinaryEntry{Key: key}
	trimmed := bytes.TrimSpace(raw)

	switch {
	case len(trimmed) > 0 && trimmed[0] == '"':
		_ = json.Unmarshal(trimmed, &entry.Value)
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err == nil {
			for _, item := range items {
				entry.List = append(entry.List, fmt.Sprint(item))
			}
		}
		entry.Value = strings.Join(entry.List, ",")
	case bytes.Equal(trimmed, []byte("null")):
	default:
		entry.Value = string(trimmed)
	}
	return entry
}
