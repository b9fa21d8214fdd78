package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
)

const defaultCountry = "Italia"

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, int32, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	customers, total, err := s.customerRepo.List(ctx, filter)
	if customers == nil && err == nil {
		customers = []domain.CustomerRecord{}
	}
	return customers, total, err
}

func (s *customerService) GetCustomer(ctx context.Context, id int32) (*domain.CustomerRecord, error) {
	c, err := s.customerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

// normalizeCustomer trims the input, applies defaults and checks the required fields.
func normalizeCustomer(c *domain.CustomerRecord) error {
	for _, f := range []*string{
		&c.FullName, &c.FiscalCode, &c.VATNumber, &c.Address, &c.City, &c.Province, &c.ZipCode,
		&c.Country, &c.Phone, &c.Email, &c.LicenseNumber, &c.LicenseIssuedBy, &c.BirthPlace,
		&c.CustomerType, &c.CompanyName, &c.IDCardNumber, &c.Notes,
	} {
		*f = strings.TrimSpace(*f)
	}
	c.FiscalCode = strings.ToUpper(c.FiscalCode)
	c.Province = strings.ToUpper(c.Province)

	if c.FullName == "" || c.FiscalCode == "" || c.Phone == "" {
		return fmt.Errorf("%w: full name, fiscal code and phone are required", ErrInvalidInput)
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, c.Email)
		}
	}
	switch c.CustomerType {
	case "":
		c.CustomerType = domain.CustomerTypeIndividual
	case domain.CustomerTypeIndividual, domain.CustomerTypeCompany:
	default:
		return fmt.Errorf("%w: unknown customer type %q", ErrInvalidInput, c.CustomerType)
	}
	if c.CustomerType == domain.CustomerTypeCompany && c.CompanyName == "" {
		return fmt.Errorf("%w: company name is required for companies", ErrInvalidInput)
	}
	if c.Country == "" {
		c.Country = defaultCountry
	}
	if c.LicenseIssueDate != nil && c.LicenseExpiryDate != nil && c.LicenseExpiryDate.Before(*c.LicenseIssueDate) {
		return fmt.Errorf("%w: license expires before it was issued", ErrInvalidInput)
	}
	return nil
}

func (s *customerService) CreateCustomer(ctx context.Context, user *domain.User, c domain.CustomerRecord) (*domain.CustomerRecord, error) {
	logger.EnterMethod("customerService.CreateCustomer", "userID", user.ID)

	c.ID = 0
	if err := normalizeCustomer(&c); err != nil {
		logger.ExitMethodWithError("customerService.CreateCustomer", err)
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			err = ErrCustomerExists
		}
		logger.ExitMethodWithError("customerService.CreateCustomer", err)
		return nil, err
	}

	logger.Info("Customer created", "customerID", c.ID, "userID", user.ID)
	logger.ExitMethod("customerService.CreateCustomer", "customerID", c.ID)
	return &c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, user *domain.User, id int32, c domain.CustomerRecord) (*domain.CustomerRecord, error) {
	logger.EnterMethod("customerService.UpdateCustomer", "userID", user.ID, "customerID", id)

	c.ID = id
	if err := normalizeCustomer(&c); err != nil {
		logger.ExitMethodWithError("customerService.UpdateCustomer", err, "customerID", id)
		return nil, err
	}
	if err := s.customerRepo.Update(ctx, &c); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			err = ErrCustomerNotFound
		case errors.Is(err, repository.ErrDuplicate):
			err = ErrCustomerExists
		}
		logger.ExitMethodWithError("customerService.UpdateCustomer", err, "customerID", id)
		return nil, err
	}

	logger.ExitMethod("customerService.UpdateCustomer", "customerID", id)
	return s.GetCustomer(ctx, id)
}

func (s *customerService) DeleteCustomer(ctx context.Context, user *domain.User, id int32) error {
	if !user.IsAdmin() {
		return ErrForbidden
	}
	err := s.customerRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrCustomerNotFound
	case errors.Is(err, repository.ErrInUse):
		return ErrCustomerHasRental
	case err != nil:
		return err
	}
	logger.Info("Customer deleted", "customerID", id, "userID", user.ID)
	return nil
}
