package models

type NGOStatus string

const (
	NGOPending  NGOStatus = "pending"
	NGOActive   NGOStatus = "active"
	NGORejected NGOStatus = "rejected"
)

type NGO struct {
	ID               string    `json:"id"`
	OrganizationName string    `json:"organizationName"`
	ContactName      string    `json:"contactName"`
	Email            string    `json:"email"`
	Description      string    `json:"description"`
	Status           NGOStatus `json:"status"`
}

func (n NGO) Key() Identity {
	return IdentityOf(n.ID, 0)
}
