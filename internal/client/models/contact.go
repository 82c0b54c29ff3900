package models

import "time"

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactAttended ContactStatus = "attended"
)

type ContactMessage struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (m ContactMessage) Key() Identity {
	return IdentityOf(m.ID, 0)
}
