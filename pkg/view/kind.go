package view

import "fmt"

// ResourceKind identifies a backing collection and its slug namespace.
type ResourceKind string

const (
	KindCategory ResourceKind = "category"
	KindProduct  ResourceKind = "product"
	KindUser     ResourceKind = "user"
)

func (k ResourceKind) Valid() bool {
	switch k {
	case KindCategory, KindProduct, KindUser:
		return true
	}
	return false
}

func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown resource kind %q", s)
	}
	return k, nil
}
