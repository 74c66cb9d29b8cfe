package contacts

import "github.com/google/uuid"

// ContactInput carries a new contact with its initial phones and addresses.
// Nested entries have no id; rows get theirs on insert. Integer fields are
// plain values, so 0 is a valid document or street number.
type ContactInput struct {
	FirstName      string `validate:"required"`
	LastName       string `validate:"required"`
	DocumentType   string `validate:"required"`
	DocumentNumber int
	Age            int            `validate:"gte=18"`
	Email          string         `validate:"required,email"`
	Phones         []PhoneInput   `validate:"dive"`
	Addresses      []AddressInput `validate:"dive"`
}

type PhoneInput struct {
	Type        string `validate:"required"`
	NumberPhone string `validate:"required"`
}

type AddressInput struct {
	Locality     string `validate:"required"`
	Street       string `validate:"required"`
	NumberStreet int
	Description  string
}

// ContactPatch is a partial update. Nil fields are left untouched. Nested
// entries must reference existing rows of the same contact by ID.
type ContactPatch struct {
	FirstName      *string        `validate:"omitempty,min=1"`
	LastName       *string        `validate:"omitempty,min=1"`
	DocumentType   *string        `validate:"omitempty,min=1"`
	DocumentNumber *int           `validate:"omitempty"`
	Age            *int           `validate:"omitempty,gte=18"`
	Email          *string        `validate:"omitempty,email"`
	Phones         []PhonePatch   `validate:"dive"`
	Addresses      []AddressPatch `validate:"dive"`
}

type PhonePatch struct {
	ID          uuid.UUID `validate:"required"`
	Type        *string   `validate:"omitempty,min=1"`
	NumberPhone *string   `validate:"omitempty,min=1"`
}

type AddressPatch struct {
	ID           uuid.UUID `validate:"required"`
	Locality     *string   `validate:"omitempty,min=1"`
	Street       *string   `validate:"omitempty,min=1"`
	NumberStreet *int
	Description  *string
}

// Fields returns the column updates carried by the patch.
func (p ContactPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.FirstName != nil {
		out["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		out["last_name"] = *p.LastName
	}
	if p.DocumentType != nil {
		out["document_type"] = *p.DocumentType
	}
	if p.DocumentNumber != nil {
		out["document_number"] = *p.DocumentNumber
	}
	if p.Age != nil {
		out["age"] = *p.Age
	}
	if p.Email != nil {
		out["email"] = *p.Email
	}
	return out
}

func (p PhonePatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Type != nil {
		out["type"] = *p.Type
	}
	if p.NumberPhone != nil {
		out["number_phone"] = *p.NumberPhone
	}
	return out
}

func (p AddressPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Locality != nil {
		out["locality"] = *p.Locality
	}
	if p.Street != nil {
		out["street"] = *p.Street
	}
	if p.NumberStreet != nil {
		out["number_street"] = *p.NumberStreet
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	return out
}

// SearchCriteria is a partially filled contact used for OR-matching. A
// contact matches when it satisfies any one supplied criterion.
type SearchCriteria struct {
	FirstName      *string
	LastName       *string
	DocumentType   *string
	DocumentNumber *int
	Age            *int
	Email          *string
	Phones         []PhoneCriteria
	Addresses      []AddressCriteria
}

type PhoneCriteria struct {
	Type        string
	NumberPhone string
}

// AddressCriteria matches address columns. A nil NumberStreet imposes no
// constraint; a set one, including 0, does.
type AddressCriteria struct {
	Locality     string
	Street       string
	NumberStreet *int
}

// PhoneSets splits phone criteria into the number and type sets. Blank
// values are skipped.
func (s SearchCriteria) PhoneSets() (numbers, types []string) {
	for _, p := range s.Phones {
		if p.NumberPhone != "" {
			numbers = appendUnique(numbers, p.NumberPhone)
		}
		if p.Type != "" {
			types = appendUnique(types, p.Type)
		}
	}
	return numbers, types
}

// AddressSets splits address criteria into locality, street and street
// number sets. Blank strings and nil numbers are skipped.
func (s SearchCriteria) AddressSets() (localities, streets []string, numbers []int) {
	for _, a := range s.Addresses {
		if a.Locality != "" {
			localities = appendUnique(localities, a.Locality)
		}
		if a.Street != "" {
			streets = appendUnique(streets, a.Street)
		}
		if a.NumberStreet != nil {
			numbers = appendUnique(numbers, *a.NumberStreet)
		}
	}
	return localities, streets, numbers
}

// Empty reports whether the criteria carry nothing to match on.
func (s SearchCriteria) Empty() bool {
	if s.FirstName != nil || s.LastName != nil || s.DocumentType != nil ||
		s.DocumentNumber != nil || s.Age != nil || s.Email != nil {
		return false
	}
	pn, pt := s.PhoneSets()
	al, as, an := s.AddressSets()
	return len(pn) == 0 && len(pt) == 0 && len(al) == 0 && len(as) == 0 && len(an) == 0
}

func appendUnique[T comparable](in []T, v T) []T {
	for _, x := range in {
		if x == v {
			return in
		}
	}
	return append(in, v)
}
