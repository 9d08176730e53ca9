package tools

import (
	"context"
	"fmt"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/store"
)

// RegisterSupportTools registers the customer and ticket tools backed
// by the support store.
func RegisterSupportTools(r *Registry, st *store.Store) error {
	defs := []Definition{
		{
			Name:        "get_customer",
			Description: "Retrieve customer information by customer ID",
			Parameters: []Parameter{
				{Name: "customer_id", Type: "integer", Description: "The customer's ID", Required: true},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				id, err := intParam(params, "customer_id")
				if err != nil {
					return nil, err
				}
				return st.GetCustomer(id)
			},
		},
		{
			Name:        "list_customers",
			Description: "List customers, optionally filtered by status and capped at a limit",
			Parameters: []Parameter{
				{Name: "status", Type: "string", Description: "Filter by status (active or disabled)", Required: false},
				{Name: "limit", Type: "integer", Description: "Maximum number of customers to return", Required: false},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				status, _ := params["status"].(string)
				limit := int64(0)
				if _, ok := params["limit"]; ok {
					var err error
					limit, err = intParam(params, "limit")
					if err != nil {
						return nil, err
					}
				}
				customers, err := st.ListCustomers(status, int(limit))
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(customers), "customers": customers}, nil
			},
		},
		{
			Name:        "add_customer",
			Description: "Add a new customer record",
			Parameters: []Parameter{
				{Name: "name", Type: "string", Description: "Customer full name", Required: true},
				{Name: "email", Type: "string", Description: "Customer email address", Required: false},
				{Name: "phone", Type: "string", Description: "Customer phone number", Required: false},
				{Name: "status", Type: "string", Description: "Account status, defaults to active", Required: false},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				name, _ := params["name"].(string)
				email, _ := params["email"].(string)
				phone, _ := params["phone"].(string)
				status, _ := params["status"].(string)
				return st.AddCustomer(name, email, phone, status)
			},
		},
		{
			Name:        "update_customer",
			Description: "Update one or more fields of an existing customer",
			Parameters: []Parameter{
				{Name: "customer_id", Type: "integer", Description: "The customer's ID", Required: true},
				{Name: "name", Type: "string", Description: "New name", Required: false},
				{Name: "email", Type: "string", Description: "New email address", Required: false},
				{Name: "phone", Type: "string", Description: "New phone number", Required: false},
				{Name: "status", Type: "string", Description: "New account status", Required: false},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				id, err := intParam(params, "customer_id")
				if err != nil {
					return nil, err
				}
				name, _ := params["name"].(string)
				email, _ := params["email"].(string)
				phone, _ := params["phone"].(string)
				status, _ := params["status"].(string)
				return st.UpdateCustomer(id, name, email, phone, status)
			},
		},
		{
			Name:        "create_ticket",
			Description: "Create a support ticket for a customer",
			Parameters: []Parameter{
				{Name: "customer_id", Type: "integer", Description: "The customer's ID", Required: true},
				{Name: "issue", Type: "string", Description: "Description of the issue", Required: true},
				{Name: "priority", Type: "string", Description: "Ticket priority: low, medium, or high", Required: false},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				id, err := intParam(params, "customer_id")
				if err != nil {
					return nil, err
				}
				issue, _ := params["issue"].(string)
				priority, _ := params["priority"].(string)
				return st.CreateTicket(id, issue, priority)
			},
		},
		{
			Name:        "get_customer_history",
			Description: "Retrieve the full ticket history for a customer",
			Parameters: []Parameter{
				{Name: "customer_id", Type: "integer", Description: "The customer's ID", Required: true},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				id, err := intParam(params, "customer_id")
				if err != nil {
					return nil, err
				}
				tickets, err := st.CustomerHistory(id)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(tickets), "tickets": tickets}, nil
			},
		},
		{
			Name:        "fallback_sql",
			Description: "Execute a raw SQL query against the support database for requests no dedicated tool covers",
			Parameters: []Parameter{
				{Name: "query", Type: "string", Description: "The SQL statement to execute", Required: true},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				query, _ := params["query"].(string)
				rows, err := st.Query(query)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(rows), "rows": rows}, nil
			},
		},
	}

	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return fmt.Errorf("failed to register %s: %w", def.Name, err)
		}
	}

	return nil
}

// intParam reads an integer parameter that may arrive as a JSON number.
func intParam(params map[string]any, key string) (int64, error) {
	switch v := params[key].(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("parameter %s must be an integer", key)
	}
}
