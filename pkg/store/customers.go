package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Customer is one row of the customers table.
type Customer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ErrCustomerNotFound reports a missing customer ID in a typed way so
// tools can render a user-facing message.
type ErrCustomerNotFound struct {
	ID int64
}

func (e ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.ID)
}

func scanCustomer(row interface{ Scan(...any) error }) (*Customer, error) {
	var c Customer
	var email, phone sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	return &c, nil
}

// GetCustomer retrieves one customer by ID.
func (s *Store) GetCustomer(id int64) (*Customer, error) {
	row := s.db.QueryRow("SELECT id, name, email, phone, status, created_at, updated_at FROM customers WHERE id = ?", id)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}

	return c, nil
}

// ListCustomers returns customers ordered by name, optionally filtered
// by status and capped at limit (0 means no cap).
func (s *Store) ListCustomers(status string, limit int) ([]Customer, error) {
	query := "SELECT id, name, email, phone, status, created_at, updated_at FROM customers"
	args := []any{}

	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY name"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}

	return customers, nil
}

// AddCustomer inserts a new customer and returns the stored row.
// Status defaults to "active" when empty.
func (s *Store) AddCustomer(name, email, phone, status string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	var result sql.Result
	var err error
	if status != "" {
		result, err = s.db.Exec(
			"INSERT INTO customers (name, email, phone, status) VALUES (?, ?, ?, ?)",
			name, nullable(email), nullable(phone), status,
		)
	} else {
		result, err = s.db.Exec(
			"INSERT INTO customers (name, email, phone) VALUES (?, ?, ?)",
			name, nullable(email), nullable(phone),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new customer ID: %w", err)
	}

	s.logger.Info().Int64("customer_id", id).Str("name", name).Msg("Customer added")

	return s.GetCustomer(id)
}

// UpdateCustomer updates the provided non-empty fields of a customer
// and returns the updated row. At least one field must be provided.
func (s *Store) UpdateCustomer(id int64, name, email, phone, status string) (*Customer, error) {
	sets := []string{}
	args := []any{}

	if name != "" {
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if email != "" {
		sets = append(sets, "email = ?")
		args = append(args, email)
	}
	if phone != "" {
		sets = append(sets, "phone = ?")
		args = append(args, phone)
	}
	if status != "" {
		sets = append(sets, "status = ?")
		args = append(args, status)
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("no fields provided to update")
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrCustomerNotFound{ID: id}
	}

	s.logger.Info().Int64("customer_id", id).Msg("Customer updated")

	return s.GetCustomer(id)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
