package types

import "fmt"

// Namespace partitions the semantic memory store. Namespaces scope search
// and filtering only; entries in every namespace share the same schema.
type Namespace string

const (
	NamespaceProducts   Namespace = "products"
	NamespaceOrders     Namespace = "orders"
	NamespaceCustomers  Namespace = "customers"
	NamespaceContent    Namespace = "content"
	NamespaceOperations Namespace = "operations"
)

// AllNamespaces returns all valid namespaces
func AllNamespaces() []Namespace {
	return []Namespace{
		NamespaceProducts,
		NamespaceOrders,
		NamespaceCustomers,
		NamespaceContent,
		NamespaceOperations,
	}
}

// IsValid checks if the namespace is valid
func (n Namespace) IsValid() bool {
	switch n {
	case NamespaceProducts,
		NamespaceOrders,
		NamespaceCustomers,
		NamespaceContent,
		NamespaceOperations:
		return true
	default:
		return false
	}
}

// String returns the string representation of the namespace
func (n Namespace) String() string {
	return string(n)
}

// ParseNamespace parses a string into a Namespace
func ParseNamespace(s string) (Namespace, error) {
	ns := Namespace(s)
	if !ns.IsValid() {
		return "", fmt.Errorf("invalid namespace: %s", s)
	}
	return ns, nil
}
