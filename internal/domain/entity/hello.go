// Package entity defines the read-only view models served by the gateway.
// It contains the hello banner, users, articles and document assets, the
// resource category enumeration, the fallback records used when the upstream
// API is unavailable, and domain-specific validation errors.
package entity

import "time"

// HelloMessage is the informational banner shown on the landing page.
type HelloMessage struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Image   string `json:"image"`
}

// User is a member of the Ressourcefy community.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}
