package post

import (
	"fmt"
	"slices"
)

// Meta keys accepted by SetMeta.
const (
	MetaSalary       = "salary"
	MetaTags         = "tags"
	MetaCompany      = "company"
	MetaAddress      = "address"
	MetaCity         = "city"
	MetaState        = "state"
	MetaPhone        = "phone"
	MetaEmail        = "email"
	MetaRequirements = "requirements"
	MetaBenefits     = "benefits"
)

var metaKeys = []string{
	MetaSalary, MetaTags, MetaCompany, MetaAddress, MetaCity,
	MetaState, MetaPhone, MetaEmail, MetaRequirements, MetaBenefits,
}

// MetaKeys returns the allow-listed meta keys.
func MetaKeys() []string { return slices.Clone(metaKeys) }

func ValidMetaKey(key string) bool {
	return slices.Contains(metaKeys, key)
}

func checkMetaKey(key string) error {
	if !ValidMetaKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidMetaKey, key)
	}
	return nil
}

// Meta maps meta keys to values. A missing key reads as "".
type Meta map[string]string

func (m Meta) Get(key string) string { return m[key] }

// Keys returns the keys in a stable order.
func (m Meta) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
