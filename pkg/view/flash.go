package view

import "fmt"

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is the toast a resolved request leaves behind. Resource and Outcome
// name the request that produced it so a screen can skip toasts raised by
// another subtree.
type Flash struct {
	Kind     FlashKind    `json:"kind"`
	Message  string       `json:"message"`
	Resource ResourceKind `json:"resource,omitempty"`
	Outcome  Outcome      `json:"outcome,omitempty"`
}

// String renders the flash for terminals, e.g. "[success] product: Product created successfully".
func (f Flash) String() string {
	if f.Resource == "" {
		return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Kind, f.Resource, f.Message)
}
