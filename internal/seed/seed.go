// Package seed loads contact fixtures from YAML and creates them through the
// contact service.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Creator interface {
	CreateContact(ctx context.Context, in contacts.ContactInput) (*contacts.Contact, error)
}

type File struct {
	Contacts []Contact `yaml:"contacts"`
}

type Contact struct {
	FirstName      string    `yaml:"firstName" validate:"required"`
	LastName       string    `yaml:"lastName" validate:"required"`
	DocumentType   string    `yaml:"documentType" validate:"required"`
	DocumentNumber *int      `yaml:"documentNumber" validate:"required"`
	Age            int       `yaml:"age" validate:"gte=18"`
	Email          string    `yaml:"email" validate:"required,email"`
	Phones         []Phone   `yaml:"phone" validate:"dive"`
	Addresses      []Address `yaml:"address" validate:"dive"`
}

type Phone struct {
	Type        string `yaml:"type" validate:"required"`
	NumberPhone string `yaml:"numberPhone" validate:"required"`
}

type Address struct {
	Locality     string `yaml:"locality" validate:"required"`
	Street       string `yaml:"street" validate:"required"`
	NumberStreet *int   `yaml:"numberStreet" validate:"required"`
	Description  string `yaml:"description"`
}

// Result counts what a run did.
type Result struct {
	Created int
	Skipped int
}

// Parse decodes a fixture document and validates every entry. Unknown keys are
// rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	v := validator.New()
	for i, c := range f.Contacts {
		if err := v.Struct(c); err != nil {
			return nil, fmt.Errorf("seed contact %d (%s %d): %w", i, c.DocumentType, c.documentNumber(), err)
		}
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(bytes.NewReader(raw))
}

// Run creates every fixture contact in file order. Contacts whose composite
// key already exists are skipped; any other failure stops the run.
func Run(ctx context.Context, log *logger.Logger, svc Creator, f *File) (Result, error) {
	var res Result
	if f == nil {
		return res, nil
	}
	log = log.With("component", "seed")
	for _, c := range f.Contacts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		created, err := svc.CreateContact(ctx, c.input())
		if err != nil {
			if domainagg.IsCode(err, domainagg.CodeConflict) {
				res.Skipped++
				log.Debug("seed contact exists", "document_type", c.DocumentType, "document_number", c.documentNumber())
				continue
			}
			return res, fmt.Errorf("seed contact %s %d: %w", c.DocumentType, c.documentNumber(), err)
		}
		res.Created++
		log.Debug("seed contact created", "contact_id", created.ID)
	}
	log.Info("seed complete", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func (c Contact) documentNumber() int {
	if c.DocumentNumber == nil {
		return 0
	}
	return *c.DocumentNumber
}

func (c Contact) input() contacts.ContactInput {
	in := contacts.ContactInput{
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.documentNumber(),
		Age:            c.Age,
		Email:          c.Email,
		Phones:         make([]contacts.PhoneInput, 0, len(c.Phones)),
		Addresses:      make([]contacts.AddressInput, 0, len(c.Addresses)),
	}
	for _, p := range c.Phones {
		in.Phones = append(in.Phones, contacts.PhoneInput{Type: p.Type, NumberPhone: p.NumberPhone})
	}
	for _, a := range c.Addresses {
		in.Addresses = append(in.Addresses, contacts.AddressInput{
			Locality:     a.Locality,
			Street:       a.Street,
			NumberStreet: *a.NumberStreet,
			Description:  a.Description,
		})
	}
	return in
}
