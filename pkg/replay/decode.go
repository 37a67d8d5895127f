package replay

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/techpath/pkg/errors"
)

// Format identifies the encoding of a parser dump.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document mirrors the parser output contract. Player ids are object keys,
// so they arrive as strings.
type document struct {
	Players    map[string]Player `json:"players" yaml:"players"`
	Map        string            `json:"map,omitempty" yaml:"map,omitempty"`
	GameLength string            `json:"gameLength,omitempty" yaml:"gameLength,omitempty"`
}

// FormatFromPath infers the dump format from a file extension.
// The second return value is false for anything that is not a dump, such as
// a raw replay that still needs an external parser.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// IsRawReplay reports whether path names an undecoded replay file.
func IsRawReplay(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sc2replay")
}

// Decode reads a parser dump in the given format.
func Decode(r io.Reader, format Format) (*Replay, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidReplay, err, "read replay data")
	}
	return Unmarshal(data, format)
}

// Unmarshal decodes parser output bytes and validates the result.
func Unmarshal(data []byte, format Format) (*Replay, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidReplay, err, "decode replay JSON")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidReplay, err, "decode replay YAML")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported replay dump format: %q", format)
	}
	return fromDocument(doc)
}

// ReadFile reads a parser dump from disk. The format is taken from the
// extension.
func ReadFile(path string) (*Replay, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s is not a replay dump (want .json, .yaml or .yml)", path)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open replay %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open replay %s", path)
	}
	defer f.Close()

	r, err := Decode(f, format)
	if err != nil {
		return nil, err
	}
	r.Source = path
	return r, nil
}

// Marshal encodes a replay back into the parser output contract.
func Marshal(r *Replay) ([]byte, error) {
	doc := document{
		Players:    make(map[string]Player, len(r.Players)),
		Map:        r.Map,
		GameLength: r.GameLength,
	}
	for id, p := range r.Players {
		doc.Players[strconv.Itoa(id)] = p
	}
	return json.MarshalIndent(doc, "", "  ")
}

func fromDocument(doc document) (*Replay, error) {
	if doc.Players == nil {
		return nil, errors.New(errors.ErrCodeInvalidReplay, "replay data has no \"players\" object")
	}

	r := &Replay{
		Players:    make(map[int]Player, len(doc.Players)),
		Map:        doc.Map,
		GameLength: doc.GameLength,
	}
	for key, p := range doc.Players {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidReplay, "player key %q is not an integer id", key)
		}
		// Ids are checked when a player is selected; parsers may key
		// observer or neutral slots with 0.
		if _, dup := r.Players[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidReplay, "player id %d appears more than once (key %q)", id, key)
		}
		for i, ev := range p.BuildOrder {
			if err := errors.ValidateEventName(ev.Name); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidReplay, err, "player %d build event %d", id, i)
			}
		}
		r.Players[id] = p
	}
	return r, nil
}
