package model

import "time"

// CustomerKind discriminates the two customer variants.
type CustomerKind string

const (
	KindIndividual   CustomerKind = "individual"
	KindOrganization CustomerKind = "organization"
)

// Individual is a physical-person customer.
type Individual struct {
	FullName      string    `json:"full_name"`
	BirthDate     time.Time `json:"birth_date,omitzero"`
	Sex           string    `json:"sex,omitempty"`
	MaritalStatus string    `json:"marital_status,omitempty"`
	Profession    string    `json:"profession,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	Location      string    `json:"location,omitempty"`
}

// Organization is a legal-entity customer.
type Organization struct {
	RegisteredName string `json:"registered_name"`
	TaxID          string `json:"tax_id,omitempty"`
	Activity       string `json:"activity,omitempty"`
	Sector         string `json:"sector,omitempty"`
	Location       string `json:"location,omitempty"`
}

// Customer is the tagged union of the two variants. Exactly one of
// Individual/Organization is non-nil, selected by Kind.
type Customer struct {
	ID           string        `json:"id"`
	Kind         CustomerKind  `json:"kind"`
	Individual   *Individual   `json:"individual,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
}

// DisplayName returns the individual full name or the organization
// registered name.
func (c Customer) DisplayName() string {
	switch c.Kind {
	case KindIndividual:
		if c.Individual != nil {
			return c.Individual.FullName
		}
	case KindOrganization:
		if c.Organization != nil {
			return c.Organization.RegisteredName
		}
	}
	return ""
}

// Profession returns the profession label used for profiling: the
// individual's profession, or the organization's activity label.
func (c Customer) Profession() string {
	switch c.Kind {
	case KindIndividual:
		if c.Individual != nil {
			return c.Individual.Profession
		}
	case KindOrganization:
		if c.Organization != nil {
			return c.Organization.Activity
		}
	}
	return ""
}

// HasProfession reports whether the customer is an individual with a
// non-empty profession label. Organizations never have one; several
// coverage rules key off this.
func (c Customer) HasProfession() bool {
	return c.Kind == KindIndividual && c.Individual != nil && c.Individual.Profession != ""
}

// Sector returns the activity-sector label of either variant.
func (c Customer) Sector() string {
	switch c.Kind {
	case KindIndividual:
		if c.Individual != nil {
			return c.Individual.Sector
		}
	case KindOrganization:
		if c.Organization != nil {
			return c.Organization.Sector
		}
	}
	return ""
}

// Location returns the location label of either variant.
func (c Customer) Location() string {
	switch c.Kind {
	case KindIndividual:
		if c.Individual != nil {
			return c.Individual.Location
		}
	case KindOrganization:
		if c.Organization != nil {
			return c.Organization.Location
		}
	}
	return ""
}

// BirthDate returns the birth date and whether one is present.
// Organizations have none.
func (c Customer) BirthDate() (time.Time, bool) {
	if c.Kind == KindIndividual && c.Individual != nil && !c.Individual.BirthDate.IsZero() {
		return c.Individual.BirthDate, true
	}
	return time.Time{}, false
}

// MaritalStatus returns the family-status label and whether one is
// present.
func (c Customer) MaritalStatus() (string, bool) {
	if c.Kind == KindIndividual && c.Individual != nil && c.Individual.MaritalStatus != "" {
		return c.Individual.MaritalStatus, true
	}
	return "", false
}
