// Package catalog holds translation metadata and its SQLite-backed store.
package catalog

// Translation describes one installed translation database.
type Translation struct {
	// ID is the catalog's numeric identifier.
	ID int `json:"id" yaml:"id"`

	// Filename is the storage handle (e.g. "sahih.db") and the catalog key.
	Filename string `json:"filename" yaml:"filename"`

	// Name is the translation's own title.
	Name string `json:"name" yaml:"name"`

	// Translator is the translator's name in English.
	Translator string `json:"translator,omitempty" yaml:"translator,omitempty"`

	// TranslatorForeign is the translator's name in the translation's language.
	TranslatorForeign string `json:"translator_foreign,omitempty" yaml:"translator_foreign,omitempty"`

	// URL is where the database was published.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// LanguageCode is the BCP-47 language tag.
	LanguageCode string `json:"language_code,omitempty" yaml:"language_code,omitempty"`

	// Version is the publisher's revision number.
	Version int `json:"version" yaml:"version"`

	// DisplayOrder sorts translations in listings (lower first).
	DisplayOrder int `json:"display_order" yaml:"display_order"`

	// Checksum is the BLAKE3 digest of the installed file.
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// DisplayName returns the name readers see: the translator's native name,
// then the English name, then the title, then the filename.
func (t Translation) DisplayName() string {
	switch {
	case t.TranslatorForeign != "":
		return t.TranslatorForeign
	case t.Translator != "":
		return t.Translator
	case t.Name != "":
		return t.Name
	default:
		return t.Filename
	}
}

// Catalog maps a translation filename to its metadata.
// Lookups are exact-match; identifiers are never normalized.
type Catalog map[string]Translation
