package entity

import "time"

// Patient holds the demographic record captured at intake.
type Patient struct {
	ID               int64      `json:"id"`
	IdentityDocument string     `json:"identity_document"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	Sex              string     `json:"sex,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Email            string     `json:"email,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Pathologist is a directory entry for a signing pathologist.
type Pathologist struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	SignatureCode string    `json:"signature_code"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}
