package entities

// TranslationUnit is one source string and its translation within a catalog.
type TranslationUnit struct {
	MsgID        int64
	CatalogID    int64
	ID           int64 // catalog-scoped sequence number
	Source       string
	Target       string
	Comments     string
	Author       string
	DateAdded    int64
	DateModified int64
	Translated   bool
}
