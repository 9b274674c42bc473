package registration

// Payload is the nested document the account backend expects. It is
// assembled from the flat Profile without validating it; validation is
// the profile step's job and the assembler must stay total so drafts
// can be previewed.
type Payload struct {
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Contacts  []Contact `json:"contacts"`
	BirthInfo BirthInfo `json:"birthInfo"`
	Address   Address   `json:"address"`
}

// Contact is a single reachable endpoint for the account.
type Contact struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Contact types used in the assembled payload.
const (
	ContactEmail       = "email"
	ContactMobilePhone = "mobilePhone"
	ContactHomePhone   = "homePhone"
	ContactWorkPhone   = "workPhone"
)

// BirthInfo groups the birth fields of the payload.
type BirthInfo struct {
	Date    string `json:"date"`
	Town    string `json:"town"`
	Country string `json:"country"`
}

// Address is the current residential address of the account holder.
type Address struct {
	Type        string `json:"type"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`
}

// addressTypeCurrent marks the address as the holder's present one.
const addressTypeCurrent = "current"

// AssemblePayload maps a flat profile onto the nested payload.
//
// Email and mobile phone contacts are always present, even when the
// mobile number is empty; home and work phones are included only when
// set. Missing optional fields come through as empty strings rather
// than being omitted.
func AssemblePayload(p Profile) Payload {
	contacts := []Contact{
		{Type: ContactEmail, Value: p.Email},
		{Type: ContactMobilePhone, Value: p.MobilePhone},
	}
	if p.HomePhone != "" {
		contacts = append(contacts, Contact{Type: ContactHomePhone, Value: p.HomePhone})
	}
	if p.WorkPhone != "" {
		contacts = append(contacts, Contact{Type: ContactWorkPhone, Value: p.WorkPhone})
	}

	return Payload{
		Firstname: p.FirstName,
		Lastname:  p.LastName,
		Email:     p.Email,
		Username:  p.Username,
		Password:  p.Password,
		Contacts:  contacts,
		BirthInfo: BirthInfo{
			Date:    p.BirthDate,
			Town:    p.BirthTown,
			Country: p.BirthCountry,
		},
		Address: Address{
			Type:        addressTypeCurrent,
			Street:      p.Street,
			HouseNumber: p.HouseNumber,
			City:        p.City,
			PostalCode:  p.PostalCode,
			Country:     p.Country,
		},
	}
}
