package provider

import (
	"context"

	corev1 "k8s.io/api/core/v1"

	projectv1 "github.com/openshift/api/project/v1"
	userv1 "github.com/openshift/api/user/v1"
)

// ProjectSpec describes a project bundle to create.
type ProjectSpec struct {
	Name        string
	Requester   string
	DisplayName string
	Description string
}

// ProjectProvider manages project bundles: the project itself, one group per
// role, and a rolebinding binding each group to its backend role.
type ProjectProvider interface {
	// NewProjectBundle creates the project and its role groups/bindings as a
	// single logical unit. Any partial result is deleted on failure.
	NewProjectBundle(ctx context.Context, spec ProjectSpec) (*projectv1.Project, error)

	// Get returns the named project. Projects not carrying the ownership
	// label are rejected, not returned.
	Get(ctx context.Context, name string) (*projectv1.Project, error)

	// DeleteProjectBundle deletes the project and its role groups. Missing
	// groups are tolerated; a missing or foreign project is an error.
	DeleteProjectBundle(ctx context.Context, name string) error
}

// UserProvider manages user bundles: the user, its identity, and the mapping
// linking the two.
type UserProvider interface {
	NewUserBundle(ctx context.Context, name, fullName string) (*userv1.User, error)
	Get(ctx context.Context, name string) (*userv1.User, error)
	DeleteUserBundle(ctx context.Context, name string) error
}

// RoleProvider manages role membership through the per-project role groups.
// Grant and Revoke are idempotent: no backend mutation is issued when the
// membership already matches the request.
type RoleProvider interface {
	Grant(ctx context.Context, user, project, role string) (*userv1.Group, error)
	Revoke(ctx context.Context, user, project, role string) (*userv1.Group, error)
	Has(ctx context.Context, user, project, role string) (bool, error)
}

// QuotaProvider manages quota bundles: the resource quotas plus the single
// limit range generated from the quota file for a project.
type QuotaProvider interface {
	NewQuotaBundle(ctx context.Context, project string, multiplier int) ([]corev1.ResourceQuota, *corev1.LimitRange, error)

	// UpdateQuotaBundle deletes and recreates the bundle; quotas are never
	// patched in place.
	UpdateQuotaBundle(ctx context.Context, project string, multiplier int) ([]corev1.ResourceQuota, *corev1.LimitRange, error)

	Get(ctx context.Context, project string) ([]corev1.ResourceQuota, []corev1.LimitRange, error)
	DeleteQuotaBundle(ctx context.Context, project string) error
}
