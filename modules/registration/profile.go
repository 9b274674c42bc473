package registration

import "github.com/willvault/registry/pkg/validator"

// dateLayout is the wire format for the birth date field.
const dateLayout = "2006-01-02"

// Profile is the flat form model captured by the profile step. All
// fields are plain strings so partially filled forms round-trip
// through the session without losing input.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`

	MobilePhone string `json:"mobilePhone"`
	HomePhone   string `json:"homePhone"`
	WorkPhone   string `json:"workPhone"`

	BirthDate    string `json:"birthDate"`
	BirthTown    string `json:"birthTown"`
	BirthCountry string `json:"birthCountry"`

	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`

	PrivacyPolicy bool `json:"privacyPolicy"`
	Declaration   bool `json:"declaration"`
}

// Validate checks the profile step's rules. It returns
// validator.ValidationErrors so handlers can render per-field
// messages.
func (p Profile) Validate() error {
	return validator.Apply(
		validator.Required("firstName", p.FirstName),
		validator.Required("lastName", p.LastName),
		validator.Required("email", p.Email),
		validator.ValidEmail("email", p.Email),
		validator.Required("username", p.Username),
		validator.MinLen("username", p.Username, 3),
		validator.MaxLen("username", p.Username, 30),
		validator.Required("password", p.Password),
		validator.MinLen("password", p.Password, 8),
		validator.ValidPhone("mobilePhone", p.MobilePhone),
		validator.ValidPhone("homePhone", p.HomePhone),
		validator.ValidPhone("workPhone", p.WorkPhone),
		validator.Required("birthDate", p.BirthDate),
		validator.ValidDate("birthDate", p.BirthDate, dateLayout),
		validator.MinAge("birthDate", p.BirthDate, dateLayout, 18),
		validator.Accepted("privacyPolicy", p.PrivacyPolicy),
		validator.Accepted("declaration", p.Declaration),
	)
}
