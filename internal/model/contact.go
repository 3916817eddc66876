package model

import "time"

// ContactMessage is a message submitted through the public contact
// form. Maps to the `contact_messages` table.
type ContactMessage struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
