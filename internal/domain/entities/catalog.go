package entities

import "time"

// Catalog is a named group of translations for one source/target language pair.
type Catalog struct {
	ID           int64
	Name         string // "<catalog>.<locale>"
	SourceLang   string
	TargetLang   string
	Author       string
	DateCreated  int64 // epoch seconds
	DateModified int64 // epoch seconds, 0 = never touched
}

func (c *Catalog) ModifiedAt() time.Time {
	if c.DateModified == 0 {
		return time.Time{}
	}
	return time.Unix(c.DateModified, 0).UTC()
}

// CatalogueDetails is the resolved identity of a variant plus its current unit count.
type CatalogueDetails struct {
	CatalogID int64
	Variant   string
	UnitCount int64
}

// CatalogueRef is one stored catalog name split into base name and locale.
// Locale is empty when the stored name carries no separator.
type CatalogueRef struct {
	Name   string
	Locale string
}
