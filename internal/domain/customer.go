package domain

import "time"

const (
	CustomerTypeIndividual = "individuale"
	CustomerTypeCompany    = "azienda"
)

// CustomerRecord is a row of the customers table. The embedded Customer holds the
// fields printed on contracts.
type CustomerRecord struct {
	ID int32 `json:"id"`
	Customer
	CustomerType string    `json:"customer_type"`
	CompanyName  string    `json:"company_name"`
	IDCardNumber string    `json:"id_card_number"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CustomerFilter searches name, fiscal code, phone and email.
type CustomerFilter struct {
	Search   string
	Page     int32
	PageSize int32
}
