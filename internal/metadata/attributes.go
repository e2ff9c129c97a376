// Package metadata reads token metadata documents and extracts the attributes
// the on-chain tests compare against.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/smarsx/larena/internal/abi"
)

// Field names accepted by Token.Field.
const (
	FieldName             = "name"
	FieldDescription      = "description"
	FieldContent          = "content"
	FieldEmissionMultiple = "emissionMultiple"
	FieldStatus           = "status"
)

var ErrUnknownField = errors.New("invalid type")

// Attribute is one entry of the metadata "attributes" array.
type Attribute struct {
	TraitType string          `json:"trait_type,omitempty"`
	Value     json.RawMessage `json:"value"`
}

// Document mirrors the JSON metadata file.
type Document struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Image        *string     `json:"image,omitempty"`
	AnimationURL string      `json:"animation_url,omitempty"`
	Attributes   []Attribute `json:"attributes"`
}

// Token is the flattened view of a Document.
type Token struct {
	Name             string
	Description      string
	Content          string
	EmissionMultiple uint32
	// Status is nil when the document has no second attribute.
	Status *string
}

// Fields lists the accepted field names.
func Fields() []string {
	out := []string{FieldName, FieldDescription, FieldContent, FieldEmissionMultiple, FieldStatus}
	sort.Strings(out)
	return out
}

// Load reads and flattens the metadata file at path.
func Load(path string) (*Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode flattens a metadata document. Content is the image when the document
// has one and the animation URL otherwise.
func Decode(r io.Reader) (*Token, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if len(doc.Attributes) == 0 {
		return nil, errors.New("metadata has no attributes")
	}

	emission, err := parseEmission(doc.Attributes[0].Value)
	if err != nil {
		return nil, err
	}

	t := &Token{
		Name:             doc.Name,
		Description:      doc.Description,
		Content:          doc.AnimationURL,
		EmissionMultiple: emission,
	}
	if doc.Image != nil {
		t.Content = *doc.Image
	}
	if len(doc.Attributes) > 1 {
		s := attributeString(doc.Attributes[1].Value)
		t.Status = &s
	}
	return t, nil
}

// Field returns the named field as it is printed for the harness. The emission
// multiple is ABI encoded as uint32; a missing status is the empty string.
func (t *Token) Field(name string) (string, error) {
	switch name {
	case FieldName:
		return t.Name, nil
	case FieldDescription:
		return t.Description, nil
	case FieldContent:
		return t.Content, nil
	case FieldEmissionMultiple:
		return abi.EncodeUint32(t.EmissionMultiple), nil
	case FieldStatus:
		if t.Status == nil {
			return "", nil
		}
		return *t.Status, nil
	default:
		return "", fmt.Errorf("%w %q, expected one of %s", ErrUnknownField, name, strings.Join(Fields(), ", "))
	}
}

// parseEmission accepts a JSON number or a numeric string.
func parseEmission(raw json.RawMessage) (uint32, error) {
	s := attributeString(raw)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("emission multiple %q is not a number", s)
	}
	if v != math.Trunc(v) || v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("emission multiple %q is not a uint32", s)
	}
	return uint32(v), nil
}

func attributeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
