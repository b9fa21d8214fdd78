package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/repository"
)

const customerColumns = `id, full_name, COALESCE(fiscal_code, ''), COALESCE(vat_number, ''),
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(province, ''), COALESCE(zip_code, ''),
	COALESCE(country, ''), COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(license_number, ''), COALESCE(license_issued_by, ''),
	license_issue_date, license_expiry_date, birth_date, COALESCE(birth_place, ''),
	COALESCE(customer_type, ''), COALESCE(company_name, ''), COALESCE(id_card_number, ''),
	COALESCE(notes, ''), created_at, updated_at`

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

// nullString stores empty strings as NULL
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func scanCustomer(row scanner) (*domain.CustomerRecord, error) {
	var (
		c                     domain.CustomerRecord
		issued, expires, born sql.NullTime
	)
	err := row.Scan(
		&c.ID, &c.FullName, &c.FiscalCode, &c.VATNumber,
		&c.Address, &c.City, &c.Province, &c.ZipCode,
		&c.Country, &c.Phone, &c.Email,
		&c.LicenseNumber, &c.LicenseIssuedBy,
		&issued, &expires, &born, &c.BirthPlace,
		&c.CustomerType, &c.CompanyName, &c.IDCardNumber,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.LicenseIssueDate = nullTime(issued)
	c.LicenseExpiryDate = nullTime(expires)
	c.BirthDate = nullTime(born)
	return &c, nil
}

// customerArgs are the writable columns in the order of the INSERT and UPDATE statements
func customerArgs(c *domain.CustomerRecord) []any {
	return []any{
		c.FullName, nullString(c.FiscalCode), nullString(c.Email), nullString(c.Phone),
		nullString(c.Address), nullString(c.City), nullString(c.Province), nullString(c.ZipCode),
		nullString(c.LicenseNumber), nullString(c.IDCardNumber), nullString(c.Notes), nullString(c.CustomerType),
		nullString(c.LicenseIssuedBy), c.LicenseIssueDate, c.LicenseExpiryDate,
		nullString(c.CompanyName), nullString(c.VATNumber), nullString(c.Country), c.BirthDate, nullString(c.BirthPlace),
	}
}

func duplicateErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

func (r *customerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, int32, error) {
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	where := " WHERE 1=1"
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += " AND (full_name ILIKE $1 OR fiscal_code ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1)"
	}

	var count int32
	countSQL := "SELECT COUNT(*) FROM customers" + where
	logger.DatabaseCall("customers.count", countSQL)
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		logger.DatabaseResult("customers.count", 0, err)
		return nil, 0, err
	}

	query := "SELECT " + customerColumns + " FROM customers" + where +
		fmt.Sprintf(" ORDER BY full_name ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("customers.list", 0, err)
		return nil, 0, err
	}
	defer rows.Close()

	var customers []domain.CustomerRecord
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	logger.DatabaseResult("customers.list", int64(len(customers)), nil)
	return customers, count, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.CustomerRecord, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return c, err
}

// checkUnique reports ErrDuplicate when a customer other than id owns the fiscal code or email
func checkUnique(ctx context.Context, tx *sql.Tx, c *domain.CustomerRecord) error {
	var other int32
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM customers WHERE (fiscal_code = $1 OR email = $2) AND id != $3 LIMIT 1`,
		c.FiscalCode, c.Email, c.ID,
	).Scan(&other)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: customer %d has the same fiscal code or email", repository.ErrDuplicate, other)
}

func (r *customerRepository) Create(ctx context.Context, c *domain.CustomerRecord) error {
	logger.EnterMethod("customerRepository.Create", "fiscalCode", c.FiscalCode)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkUnique(ctx, tx, c); err != nil {
		logger.ExitMethodWithError("customerRepository.Create", err)
		return err
	}

	now := time.Now()
	query := `INSERT INTO customers (
		full_name, fiscal_code, email, phone,
		address, city, province, zip_code,
		license_number, id_card_number, notes, customer_type,
		license_issued_by, license_issue_date, license_expiry_date,
		company_name, vat_number, country, birth_date, birth_place,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $21
	) RETURNING id`

	args := append(customerArgs(c), now)
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		err = duplicateErr(err)
		logger.ExitMethodWithError("customerRepository.Create", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	c.CreatedAt, c.UpdatedAt = now, now
	logger.ExitMethod("customerRepository.Create", "customerID", c.ID)
	return nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.CustomerRecord) error {
	logger.EnterMethod("customerRepository.Update", "customerID", c.ID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkUnique(ctx, tx, c); err != nil {
		logger.ExitMethodWithError("customerRepository.Update", err, "customerID", c.ID)
		return err
	}

	now := time.Now()
	query := `UPDATE customers SET
		full_name = $1, fiscal_code = $2, email = $3, phone = $4,
		address = $5, city = $6, province = $7, zip_code = $8,
		license_number = $9, id_card_number = $10, notes = $11, customer_type = $12,
		license_issued_by = $13, license_issue_date = $14, license_expiry_date = $15,
		company_name = $16, vat_number = $17, country = $18, birth_date = $19, birth_place = $20,
		updated_at = $21
	WHERE id = $22`

	args := append(customerArgs(c), now, c.ID)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		err = duplicateErr(err)
		logger.ExitMethodWithError("customerRepository.Update", err, "customerID", c.ID)
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return repository.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	c.UpdatedAt = now
	logger.ExitMethod("customerRepository.Update", "customerID", c.ID)
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var open int64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rentals WHERE customer_id = $1 AND status IN ('active', 'pending_return')`, id,
	).Scan(&open)
	if err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("%w: %d open rentals", repository.ErrInUse, open)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: closed rentals", repository.ErrInUse)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	logger.DatabaseResult("customers.delete", n, nil, "customerID", id)
	return tx.Commit()
}
