package domain

import "errors"

// Domain errors.
var (
	ErrCatalogNotFound  = errors.New("catalog not found")
	ErrCatalogAmbiguous = errors.New("catalog name matches more than one catalog")
	ErrNoMessages       = errors.New("no messages to save")
)

// DefaultCatalogue is the catalog base name used when the caller passes none.
const DefaultCatalogue = "messages"

// VariantSeparator joins a catalog base name and its locale.
const VariantSeparator = "."
