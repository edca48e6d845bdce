package view

import "time"

// Outcome tags a successful mutation so clients never infer it from message text.
type Outcome string

const (
	OutcomeNone       Outcome = ""
	OutcomeListed     Outcome = "listed"
	OutcomeCreated    Outcome = "created"
	OutcomeUpdated    Outcome = "updated"
	OutcomeVerified   Outcome = "verified"
	OutcomeRegistered Outcome = "registered"
)

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	InStock     int         `json:"inStock"`
	Quality     string      `json:"quality"`
	Sold        int         `json:"sold"`
	Category    CategoryRef `json:"category"`
	Size        string      `json:"size"`
	Season      []string    `json:"season"`
	Image       string      `json:"image,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type ProductList struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type CategoryList struct {
	Items []Category `json:"items"`
}

type UserProfile struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Role          string     `json:"role"`
	EmailVerified bool       `json:"emailVerified"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
}
