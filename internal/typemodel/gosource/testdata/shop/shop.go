package shop

import "time"

// Status is the state of an order.
type Status string

const (
	// StatusOpen marks orders being edited.
	StatusOpen Status = "open"
	StatusPaid Status = "paid" // paid orders
)

// Audit carries timestamps.
type Audit struct {
	Created time.Time
}

// Order is a customer order.
type Order struct {
	Audit
	// ID identifies the order.
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Lines    []Line `json:"lines"`
	Shipping struct {
		Street string `json:"street"`
	} `json:"shipping"`
	Placed time.Time
	Hook   func()
	notes  string
}

// Total sums the line quantities.
func (o Order) Total() float64 { return 0 }

func (o *Order) Note(text string) { o.notes = text }

type Line struct {
	SKU      string
	Quantity int
}

// Page is a page of items.
type Page[T any] struct {
	Items []T
	Next  *string
}

type Catalog struct {
	Lines Page[Line]
}

type Lines = Page[Line]
