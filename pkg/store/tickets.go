package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Ticket is one row of the tickets table.
type Ticket struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Issue      string `json:"issue"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	CreatedAt  string `json:"created_at"`
}

// ValidPriorities are the accepted ticket priority levels.
var ValidPriorities = []string{"low", "medium", "high"}

func normalizePriority(priority string) string {
	priority = strings.ToLower(strings.TrimSpace(priority))
	for _, p := range ValidPriorities {
		if priority == p {
			return priority
		}
	}
	return "medium"
}

// CreateTicket creates a ticket for an existing customer. An invalid
// priority silently becomes "medium". Transient lock errors are
// retried once.
func (s *Store) CreateTicket(customerID int64, issue, priority string) (*Ticket, error) {
	if issue == "" {
		return nil, fmt.Errorf("issue is required")
	}
	priority = normalizePriority(priority)

	if _, err := s.GetCustomer(customerID); err != nil {
		return nil, err
	}

	const maxRetries = 2
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err := s.db.Exec(
			"INSERT INTO tickets (customer_id, issue, priority) VALUES (?, ?, ?)",
			customerID, issue, priority,
		)
		if err != nil {
			lastErr = err
			if strings.Contains(strings.ToLower(err.Error()), "locked") && attempt < maxRetries-1 {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return nil, fmt.Errorf("failed to insert ticket: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read new ticket ID: %w", err)
		}

		s.logger.Info().
			Int64("ticket_id", id).
			Int64("customer_id", customerID).
			Str("priority", priority).
			Msg("Ticket created")

		return s.GetTicket(id)
	}

	return nil, fmt.Errorf("failed to create ticket after retries: %w", lastErr)
}

// GetTicket retrieves one ticket by ID.
func (s *Store) GetTicket(id int64) (*Ticket, error) {
	var t Ticket
	err := s.db.QueryRow(
		"SELECT id, customer_id, issue, status, priority, created_at FROM tickets WHERE id = ?", id,
	).Scan(&t.ID, &t.CustomerID, &t.Issue, &t.Status, &t.Priority, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	return &t, nil
}

// CustomerHistory returns all tickets for a customer, oldest first.
// An unknown customer yields an empty history, not an error.
func (s *Store) CustomerHistory(customerID int64) ([]Ticket, error) {
	rows, err := s.db.Query(
		"SELECT id, customer_id, issue, status, priority, created_at FROM tickets WHERE customer_id = ? ORDER BY id",
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket history: %w", err)
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Issue, &t.Status, &t.Priority, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tickets: %w", err)
	}

	return tickets, nil
}

// IsNotFound reports whether err is a missing-customer error.
func IsNotFound(err error) bool {
	var nf ErrCustomerNotFound
	return errors.As(err, &nf)
}
