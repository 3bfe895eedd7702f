package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Names of the built-in document fields.
const (
	FieldTitle   = "title"
	FieldPath    = "path"
	FieldContent = "content"
)

// Document is a single corpus record.
// Documents are immutable once stored; the id is stable across rebuilds
// and is the key shared by the search index and the document store.
type Document struct {
	// ID is the unique, stable identifier of the document.
	ID int

	// Title is the human-readable title.
	Title string

	// Path is the location the document is rendered at.
	Path string

	// Content is the full text body.
	Content string

	// Fields holds any additional string attributes from the corpus.
	Fields map[string]string
}

// Value returns the text of the named field and whether the document has it.
func (d Document) Value(field string) (string, bool) {
	switch field {
	case FieldTitle:
		return d.Title, true
	case FieldPath:
		return d.Path, true
	case FieldContent:
		return d.Content, true
	}
	v, ok := d.Fields[field]
	return v, ok
}

// FieldNames returns the extra field names in sorted order.
func (d Document) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON flattens extra fields next to the built-in ones.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+4)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["id"] = d.ID
	out[FieldTitle] = d.Title
	out[FieldPath] = d.Path
	out[FieldContent] = d.Content
	return json.Marshal(out)
}

// UnmarshalJSON reads a corpus object. The id is required; string-valued
// attributes other than title, path and content are kept in Fields and
// everything else is ignored.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	idRaw, ok := raw["id"]
	if !ok {
		return fmt.Errorf("%w: document has no id", ErrInvalidArgument)
	}
	var id int
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return fmt.Errorf("%w: document id %s is not an integer", ErrInvalidArgument, idRaw)
	}

	doc := Document{ID: id}
	for key, value := range raw {
		if key == "id" {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			continue
		}
		switch key {
		case FieldTitle:
			doc.Title = s
		case FieldPath:
			doc.Path = s
		case FieldContent:
			doc.Content = s
		default:
			if doc.Fields == nil {
				doc.Fields = make(map[string]string)
			}
			doc.Fields[key] = s
		}
	}

	*d = doc
	return nil
}
