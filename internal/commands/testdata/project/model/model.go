package model

// Status of an order.
type Status string

const (
	StatusOpen Status = "open"
	StatusPaid Status = "paid"
)

// Customer places orders.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty" validate:"email"`
}

// Order is a purchase.
type Order struct {
	ID       string    `json:"id"`
	Status   Status    `json:"status"`
	Customer *Customer `json:"customer,omitempty"`
	Items    []string  `json:"items"`
}
