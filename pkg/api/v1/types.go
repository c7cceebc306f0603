package v1

import (
	corev1 "k8s.io/api/core/v1"
)

// ProjectRequest is the body of a create-project call.
// swagger:model ProjectRequest
type ProjectRequest struct {
	Name        string `json:"name"`
	Requester   string `json:"requester"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
}

// UserRequest is the body of a create-user call.
// swagger:model UserRequest
type UserRequest struct {
	Name string `json:"name"`
	// FullName defaults to Name when not provided.
	FullName string `json:"fullName,omitempty"`
}

// QuotaRequest is the body of a create/update-quota call.
// swagger:model QuotaRequest
type QuotaRequest struct {
	// Multiplier must be a positive non-zero integer.
	Multiplier int `json:"multiplier"`
}

// Project is the external representation of a project.
type Project struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
	Requester   string `json:"requester,omitempty"`
}

// User is the external representation of a user.
type User struct {
	Name     string   `json:"name"`
	FullName string   `json:"fullName,omitempty"`
	Groups   []string `json:"groups,omitempty"`
	// Identities reflects backend state and is never asserted by this service.
	Identities []string `json:"identities,omitempty"`
}

// Group is the external representation of a role group.
type Group struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

// RoleStatus reports whether a user holds a role in a project.
type RoleStatus struct {
	User    string `json:"user"`
	Project string `json:"project"`
	Role    string `json:"role"`
	HasRole bool   `json:"hasRole"`
}

// QuotaList carries the resource quotas and limit ranges of a project.
type QuotaList struct {
	Quotas []corev1.ResourceQuota `json:"quotas"`
	Limits []corev1.LimitRange    `json:"limits"`
}

// Message is a generic confirmation response.
type Message struct {
	Message string `json:"message"`
}
