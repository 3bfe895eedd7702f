package domain

// FieldHits is the ordered list of document ids that matched a query in one field.
type FieldHits struct {
	// Field is the name of the searched field.
	Field string `json:"field"`

	// Result holds matching ids in index order.
	Result []int `json:"result"`
}

// FieldDocuments is a FieldHits entry resolved through the document store.
type FieldDocuments struct {
	// Field is the name of the searched field.
	Field string `json:"field"`

	// Documents holds the resolved documents in index order.
	// Ids without a stored document are skipped.
	Documents []Document `json:"documents"`
}

// QueryState is the last query issued, kept for load-more pagination.
type QueryState struct {
	Query  string
	Fields []string
	Limit  int
	Offset int
}

// Next returns the state for the following page.
func (q QueryState) Next() QueryState {
	next := q
	next.Fields = append([]string(nil), q.Fields...)
	next.Offset = q.Offset + q.Limit
	return next
}

// IndexOrder selects how a field's matches are ordered.
type IndexOrder string

// Available index orders.
const (
	// IndexOrderOrdinal orders matches by document id ascending.
	IndexOrderOrdinal IndexOrder = "ordinal"

	// IndexOrderRelevance orders matches by engine score, ties by id.
	IndexOrderRelevance IndexOrder = "relevance"
)

// IsValid returns true if the order is recognised.
func (o IndexOrder) IsValid() bool {
	return o == IndexOrderOrdinal || o == IndexOrderRelevance
}

// MatchMode selects how query tokens are matched against field tokens.
type MatchMode string

// Available match modes.
const (
	// MatchModeTerm requires every query token to equal a field token.
	MatchModeTerm MatchMode = "term"

	// MatchModePrefix requires every query token to prefix a field token.
	MatchModePrefix MatchMode = "prefix"
)

// IsValid returns true if the match mode is recognised.
func (m MatchMode) IsValid() bool {
	return m == MatchModeTerm || m == MatchModePrefix
}

// CountDocuments returns the total number of documents across field groups.
func CountDocuments(groups []FieldDocuments) int {
	n := 0
	for _, g := range groups {
		n += len(g.Documents)
	}
	return n
}

// MergeFieldDocuments appends more to base per field, keeping the field
// order of base and adding fields that appear only in more at the end.
func MergeFieldDocuments(base, more []FieldDocuments) []FieldDocuments {
	out := make([]FieldDocuments, len(base))
	index := make(map[string]int, len(base))
	for i, g := range base {
		out[i] = FieldDocuments{Field: g.Field, Documents: append([]Document(nil), g.Documents...)}
		index[g.Field] = i
	}
	for _, g := range more {
		if i, ok := index[g.Field]; ok {
			out[i].Documents = append(out[i].Documents, g.Documents...)
			continue
		}
		index[g.Field] = len(out)
		out = append(out, FieldDocuments{Field: g.Field, Documents: append([]Document(nil), g.Documents...)})
	}
	return out
}
