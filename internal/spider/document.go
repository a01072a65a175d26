package spider

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported document encodings
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is a decoded tables.json file: one Entry per database
type Document []Entry

// Entry describes a single database. Columns, primary keys and foreign keys
// reference tables and columns by position.
type Entry struct {
	DBID        string      `json:"db_id" yaml:"db_id"`
	TableNames  []string    `json:"table_names_original" yaml:"table_names_original"`
	Columns     []ColumnRef `json:"column_names_original" yaml:"column_names_original"`
	ColumnTypes []string    `json:"column_types" yaml:"column_types"`
	PrimaryKeys []int       `json:"primary_keys" yaml:"primary_keys"`
	ForeignKeys [][2]int    `json:"foreign_keys" yaml:"foreign_keys"`

	// Normalized names shipped with the Spider dataset. Decoded so that a
	// document survives a read/write cycle, never used for rendering.
	NormalizedTables  []string    `json:"table_names,omitempty" yaml:"table_names,omitempty"`
	NormalizedColumns []ColumnRef `json:"column_names,omitempty" yaml:"column_names,omitempty"`
}

// ColumnRef is a [table_index, column_name] pair. TableIndex -1 marks the wildcard.
type ColumnRef struct {
	TableIndex int
	Name       string
}

func (c ColumnRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.TableIndex, c.Name})
}

func (c *ColumnRef) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("column reference: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("column reference: expected [table_index, name] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.TableIndex); err != nil {
		return fmt.Errorf("column reference table index: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Name); err != nil {
		return fmt.Errorf("column reference name: %w", err)
	}
	return nil
}

func (c ColumnRef) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	idx := &yaml.Node{}
	if err := idx.Encode(c.TableIndex); err != nil {
		return nil, err
	}
	name := &yaml.Node{}
	if err := name.Encode(c.Name); err != nil {
		return nil, err
	}
	node.Content = []*yaml.Node{idx, name}
	return node, nil
}

func (c *ColumnRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("column reference at line %d: expected [table_index, name] pair", value.Line)
	}
	if err := value.Content[0].Decode(&c.TableIndex); err != nil {
		return fmt.Errorf("column reference table index: %w", err)
	}
	if err := value.Content[1].Decode(&c.Name); err != nil {
		return fmt.Errorf("column reference name: %w", err)
	}
	return nil
}

// FormatFromPath picks the document encoding from a file extension
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a document in the given format
func Decode(r io.Reader, format string) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON document: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
	return doc, nil
}

// Encode writes a document in the given format
func Encode(w io.Writer, doc Document, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode JSON document: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode YAML document: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format: %s", format)
	}
	return nil
}

// ReadFile decodes the document stored at path
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, FormatFromPath(path))
}

// WriteFile encodes the document to path, replacing any existing file
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	if err := Encode(f, doc, FormatFromPath(path)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
