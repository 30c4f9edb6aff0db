package types

import "github.com/havenfurnitures/storefront-api/pkg/pagination"

// Envelope is the uniform response wrapper for every endpoint.
type Envelope struct {
	Success    bool             `json:"success"`
	Data       any              `json:"data,omitempty"`
	Message    string           `json:"message,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`

	// Failure-only fields.
	Code   string `json:"code,omitempty"`
	Errors any    `json:"errors,omitempty"`
	Error  string `json:"error,omitempty"`
}

// HealthStatus is returned by the health probe.
type HealthStatus struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}
