package domain

import "time"

// Customer is the holder of one or more accounts.
type Customer struct {
	CustomerID string    `json:"customerID"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Credential is the login record of a customer.
type Credential struct {
	Username     string
	PasswordHash string
	CustomerID   string
	LastLoginAt  *time.Time
}
