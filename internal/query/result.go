package query

import "github.com/matsen/tagger/internal/storage"

// Kind says which field of a Result is populated.
type Kind int

const (
	// KindNames results list object names, one per object.
	KindNames Kind = iota
	// KindObjectTags results pair each object with its joined tags.
	KindObjectTags
)

// Result is the answer to a list request.
type Result struct {
	Kind    Kind
	Names   []string
	Objects []storage.ObjectTags
}

// Len returns the number of entries in the result.
func (r Result) Len() int {
	if r.Kind == KindObjectTags {
		return len(r.Objects)
	}
	return len(r.Names)
}
