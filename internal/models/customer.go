package models

import "time"

// Customer is the row layout of the customers table.
type Customer struct {
	CustomerID string
	FullName   string
	Email      string
	Phone      string
	Address    *string
	CreatedAt  time.Time
}

// Login is the row layout of the logins table.
type Login struct {
	Username     string
	PasswordHash string
	CustomerID   string
	LastLoginAt  *time.Time
}
