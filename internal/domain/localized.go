package domain

// Localized holds a translatable field keyed by language id
type Localized map[string]string

// Get returns the value for the language and whether it was present in the source
func (l Localized) Get(langID string) (string, bool) {
	v, ok := l[langID]
	return v, ok
}
