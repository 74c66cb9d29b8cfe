package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/platform/apierr"
	"github.com/yungbote/contactbook-backend/internal/services"
)

type ContactHandler struct {
	contacts services.ContactService
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contactService}
}

type phoneRequest struct {
	Type        string `json:"type" binding:"required"`
	NumberPhone string `json:"numberPhone" binding:"required"`
}

type addressRequest struct {
	Locality     string `json:"locality" binding:"required"`
	Street       string `json:"street" binding:"required"`
	NumberStreet *int   `json:"numberStreet" binding:"required"`
	Description  string `json:"description"`
}

type createContactRequest struct {
	FirstName      string           `json:"firstName" binding:"required"`
	LastName       string           `json:"lastName" binding:"required"`
	DocumentType   string           `json:"documentType" binding:"required"`
	DocumentNumber *int             `json:"documentNumber" binding:"required"`
	Age            int              `json:"age" binding:"gte=18"`
	Email          string           `json:"email" binding:"required,email"`
	Phone          []phoneRequest   `json:"phone" binding:"dive"`
	Address        []addressRequest `json:"address" binding:"dive"`
}

func (r createContactRequest) toInput() contacts.ContactInput {
	in := contacts.ContactInput{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DocumentType:   r.DocumentType,
		DocumentNumber: *r.DocumentNumber,
		Age:            r.Age,
		Email:          r.Email,
	}
	for _, p := range r.Phone {
		in.Phones = append(in.Phones, contacts.PhoneInput{Type: p.Type, NumberPhone: p.NumberPhone})
	}
	for _, a := range r.Address {
		in.Addresses = append(in.Addresses, contacts.AddressInput{
			Locality:     a.Locality,
			Street:       a.Street,
			NumberStreet: *a.NumberStreet,
			Description:  a.Description,
		})
	}
	return in
}

type phoneCriteriaRequest struct {
	Type        string `json:"type"`
	NumberPhone string `json:"numberPhone"`
}

type addressCriteriaRequest struct {
	Locality     string `json:"locality"`
	Street       string `json:"street"`
	NumberStreet *int   `json:"numberStreet"`
}

type searchContactsRequest struct {
	FirstName      *string                  `json:"firstName"`
	LastName       *string                  `json:"lastName"`
	DocumentType   *string                  `json:"documentType"`
	DocumentNumber *int                     `json:"documentNumber"`
	Age            *int                     `json:"age"`
	Email          *string                  `json:"email"`
	Phone          []phoneCriteriaRequest   `json:"phone"`
	Address        []addressCriteriaRequest `json:"address"`
}

func (r searchContactsRequest) toCriteria() contacts.SearchCriteria {
	out := contacts.SearchCriteria{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		Age:            r.Age,
		Email:          r.Email,
	}
	for _, p := range r.Phone {
		out.Phones = append(out.Phones, contacts.PhoneCriteria{Type: p.Type, NumberPhone: p.NumberPhone})
	}
	for _, a := range r.Address {
		out.Addresses = append(out.Addresses, contacts.AddressCriteria{
			Locality:     a.Locality,
			Street:       a.Street,
			NumberStreet: a.NumberStreet,
		})
	}
	return out
}

type phonePatchRequest struct {
	ID          uuid.UUID `json:"id" binding:"required"`
	Type        *string   `json:"type" binding:"omitempty,min=1"`
	NumberPhone *string   `json:"numberPhone" binding:"omitempty,min=1"`
}

type addressPatchRequest struct {
	ID           uuid.UUID `json:"id" binding:"required"`
	Locality     *string   `json:"locality" binding:"omitempty,min=1"`
	Street       *string   `json:"street" binding:"omitempty,min=1"`
	NumberStreet *int      `json:"numberStreet"`
	Description  *string   `json:"description"`
}

type updateContactRequest struct {
	FirstName      *string               `json:"firstName" binding:"omitempty,min=1"`
	LastName       *string               `json:"lastName" binding:"omitempty,min=1"`
	DocumentType   *string               `json:"documentType" binding:"omitempty,min=1"`
	DocumentNumber *int                  `json:"documentNumber"`
	Age            *int                  `json:"age" binding:"omitempty,gte=18"`
	Email          *string               `json:"email" binding:"omitempty,email"`
	Phone          []phonePatchRequest   `json:"phone" binding:"dive"`
	Address        []addressPatchRequest `json:"address" binding:"dive"`
}

func (r updateContactRequest) toPatch() contacts.ContactPatch {
	out := contacts.ContactPatch{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		Age:            r.Age,
		Email:          r.Email,
	}
	for _, p := range r.Phone {
		out.Phones = append(out.Phones, contacts.PhonePatch{ID: p.ID, Type: p.Type, NumberPhone: p.NumberPhone})
	}
	for _, a := range r.Address {
		out.Addresses = append(out.Addresses, contacts.AddressPatch{
			ID:           a.ID,
			Locality:     a.Locality,
			Street:       a.Street,
			NumberStreet: a.NumberStreet,
			Description:  a.Description,
		})
	}
	return out
}

// POST /contacts
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	created, err := h.contacts.CreateContact(c.Request.Context(), req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondCreated(c, created)
}

// GET /contacts/email/:email
func (h *ContactHandler) FindByEmail(c *gin.Context) {
	found, err := h.contacts.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, found)
}

// POST /contacts/search
func (h *ContactHandler) SearchContacts(c *gin.Context) {
	var req searchContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	found, err := h.contacts.SearchByPersonalData(c.Request.Context(), req.toCriteria())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, found)
}

// GET /contacts/by-phone?type=&numberPhone=
func (h *ContactHandler) FindByPhone(c *gin.Context) {
	found, err := h.contacts.FindByPhone(c.Request.Context(), c.Query("type"), c.Query("numberPhone"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, found)
}

// GET /contacts/by-address?locality=
func (h *ContactHandler) FindByAddress(c *gin.Context) {
	found, err := h.contacts.FindByAddress(c.Request.Context(), c.Query("locality"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, found)
}

// DELETE /contacts/:documentType/:documentNumber
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	documentType, documentNumber, ok := h.compositeKey(c)
	if !ok {
		return
	}
	if err := h.contacts.DeleteContact(c.Request.Context(), documentType, documentNumber); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// PATCH /contacts/:documentType/:documentNumber
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	documentType, documentNumber, ok := h.compositeKey(c)
	if !ok {
		return
	}
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	updated, err := h.contacts.UpdateContact(c.Request.Context(), documentType, documentNumber, req.toPatch())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, updated)
}

func (h *ContactHandler) compositeKey(c *gin.Context) (string, int, bool) {
	documentType := strings.TrimSpace(c.Param("documentType"))
	documentNumber, err := strconv.Atoi(strings.TrimSpace(c.Param("documentNumber")))
	if documentType == "" || err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", errors.New("documentType and a numeric documentNumber are required"))
		return "", 0, false
	}
	return documentType, documentNumber, true
}

func (h *ContactHandler) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		response.RespondError(c, http.StatusBadRequest, "validation", fmt.Errorf("%s failed on %q", fe.Field(), fe.Tag()))
		return
	}
	response.RespondError(c, http.StatusBadRequest, "validation", errors.New("malformed request body"))
}

func (h *ContactHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	response.RespondAPIError(c, apierr.FromAggregate(err))
}
