package http

import (
	"encoding/json"
	"net/http"
	"time"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/service"
)

type CustomerHandler struct {
	customers service.CustomerService
	loc       *time.Location
}

func NewCustomerHandler(customers service.CustomerService, loc *time.Location) *CustomerHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &CustomerHandler{customers: customers, loc: loc}
}

type customerRequest struct {
	FullName          string `json:"full_name"`
	FiscalCode        string `json:"fiscal_code"`
	VATNumber         string `json:"vat_number"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	City              string `json:"city"`
	Province          string `json:"province"`
	ZipCode           string `json:"zip_code"`
	Country           string `json:"country"`
	BirthDate         string `json:"birth_date"`
	BirthPlace        string `json:"birth_place"`
	LicenseNumber     string `json:"license_number"`
	LicenseIssuedBy   string `json:"license_issued_by"`
	LicenseIssueDate  string `json:"license_issue_date"`
	LicenseExpiryDate string `json:"license_expiry_date"`
	IDCardNumber      string `json:"id_card_number"`
	CustomerType      string `json:"customer_type"`
	CompanyName       string `json:"company_name"`
	Notes             string `json:"notes"`
}

type listCustomersResponse struct {
	Customers  []domain.CustomerRecord `json:"customers"`
	TotalCount int32                   `json:"total_count"`
	Page       int32                   `json:"page"`
	Limit      int32                   `json:"limit"`
}

func (req customerRequest) record(loc *time.Location) (domain.CustomerRecord, error) {
	c := domain.CustomerRecord{
		Customer: domain.Customer{
			FullName:        req.FullName,
			FiscalCode:      req.FiscalCode,
			VATNumber:       req.VATNumber,
			Address:         req.Address,
			City:            req.City,
			Province:        req.Province,
			ZipCode:         req.ZipCode,
			Country:         req.Country,
			Phone:           req.Phone,
			Email:           req.Email,
			LicenseNumber:   req.LicenseNumber,
			LicenseIssuedBy: req.LicenseIssuedBy,
			BirthPlace:      req.BirthPlace,
		},
		CustomerType: req.CustomerType,
		CompanyName:  req.CompanyName,
		IDCardNumber: req.IDCardNumber,
		Notes:        req.Notes,
	}

	var err error
	if c.BirthDate, err = optionalTime(req.BirthDate, loc); err != nil {
		return c, err
	}
	if c.LicenseIssueDate, err = optionalTime(req.LicenseIssueDate, loc); err != nil {
		return c, err
	}
	c.LicenseExpiryDate, err = optionalTime(req.LicenseExpiryDate, loc)
	return c, err
}

func (h *CustomerHandler) decode(w http.ResponseWriter, r *http.Request) (domain.CustomerRecord, bool) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Richiesta non valida")
		return domain.CustomerRecord{}, false
	}
	c, err := req.record(h.loc)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Date non valide")
		return domain.CustomerRecord{}, false
	}
	return c, true
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CustomerFilter{Search: q.Get("search")}

	var err error
	if filter.Page, err = positiveInt32(q.Get("page"), 1); err != nil {
		writeFailure(w, http.StatusBadRequest, "Pagina non valida")
		return
	}
	if filter.PageSize, err = positiveInt32(q.Get("limit"), defaultListLimit); err != nil {
		writeFailure(w, http.StatusBadRequest, "Limite non valido")
		return
	}

	customers, total, err := h.customers.ListCustomers(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", listCustomersResponse{
		Customers:  customers,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.PageSize,
	})
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	c, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", c)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.customers.CreateCustomer(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Cliente creato con successo", c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.customers.UpdateCustomer(r.Context(), user, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Cliente aggiornato con successo", c)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "ID non valido")
		return
	}

	if err := h.customers.DeleteCustomer(r.Context(), user, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Cliente eliminato con successo", nil)
}
