package company

import "time"

type Company struct {
	ID        string
	Name      string
	Phone     *string
	Email     *string
	Address   *string
	City      *string
	District  *string
	State     *string
	Country   *string
	ZipCode   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
