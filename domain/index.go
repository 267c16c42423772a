package domain

// IndexDescriptor identifies one document type in the backend: the index
// name it declares for itself, its document type, and the field-type
// mapping used for schema updates.
type IndexDescriptor struct {
	Name    string
	DocType string
	Mapping map[string]any
}

// IndexResolver decides the physical index name for a document type. Both
// implementations are pure lookups with no side effects, safe to share
// across concurrent calls.
type IndexResolver interface {
	Resolve(d IndexDescriptor) string
}

// GlobalIndex routes every document type to a single shared index.
type GlobalIndex struct {
	Name string
}

func (g GlobalIndex) Resolve(IndexDescriptor) string { return g.Name }

// PerTypeIndex routes each document type to its own declared index.
type PerTypeIndex struct{}

func (PerTypeIndex) Resolve(d IndexDescriptor) string { return d.Name }
