package entity

import "time"

// Producer is a rural producer identified by a CPF or CNPJ.
//
// CPFCNPJ holds the stored form inside the repository layer (ciphertext when
// encryption is on) and the plaintext once it leaves the service layer.
// DocumentDigest is the lookup value used for exact-match filtering.
type Producer struct {
	ID             string     `json:"id"`
	CPFCNPJ        string     `json:"cpfCnpj"`
	DocumentDigest string     `json:"-"`
	Name           string     `json:"name"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DeletedAt      *time.Time `json:"deletedAt"`
	Properties     []Property `json:"properties,omitempty"`
}

func (p *Producer) IsDeleted() bool { return p.DeletedAt != nil }
