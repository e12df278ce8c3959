package catalog_import

import "strings"

// ParseAttributes reads a combination name such as "Couleur:Rouge-Taille:M"
// into lower-cased attribute keys. Tokens without both a key and a value are
// ignored, so a malformed name yields an empty map.
func ParseAttributes(name, separator string) map[string]string {
	if separator == "" {
		separator = DefaultAttributeSep
	}

	attrs := make(map[string]string)
	if strings.TrimSpace(name) == "" {
		return attrs
	}

	for _, token := range strings.Split(name, separator) {
		key, value, ok := strings.Cut(token, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		attrs[key] = value
	}
	return attrs
}
