package handler

import (
	"net/http"

	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"

	"github.com/larsks/acct-manager/pkg/handler/middleware"
)

// RegisterV1 declares the router paths for the v1 API. Every path except the
// health endpoint requires authentication.
func (r Routing) RegisterV1(router *mux.Router) {
	// swagger:route GET /api/healthz healthz
	//
	// Health endpoint
	//
	//     Responses:
	//       200: empty
	router.Methods(http.MethodGet).
		Path("/api/healthz").
		HandlerFunc(StatusOK)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(middleware.Instrument)
	v1.Use(r.basicAuth)

	v1.Methods(http.MethodPost).
		Path("/projects").
		Handler(r.createProjectHandler())

	v1.Methods(http.MethodGet).
		Path("/projects/{project}").
		Handler(r.getProjectHandler())

	v1.Methods(http.MethodDelete).
		Path("/projects/{project}").
		Handler(r.deleteProjectHandler())

	v1.Methods(http.MethodPost).
		Path("/projects/{project}/quotas").
		Handler(r.createQuotaHandler())

	v1.Methods(http.MethodGet).
		Path("/projects/{project}/quotas").
		Handler(r.getQuotaHandler())

	v1.Methods(http.MethodPut).
		Path("/projects/{project}/quotas").
		Handler(r.updateQuotaHandler())

	v1.Methods(http.MethodDelete).
		Path("/projects/{project}/quotas").
		Handler(r.deleteQuotaHandler())

	v1.Methods(http.MethodPost).
		Path("/users").
		Handler(r.createUserHandler())

	v1.Methods(http.MethodGet).
		Path("/users/{user}").
		Handler(r.getUserHandler())

	v1.Methods(http.MethodDelete).
		Path("/users/{user}").
		Handler(r.deleteUserHandler())

	v1.Methods(http.MethodGet).
		Path("/users/{user}/projects/{project}/roles/{role}").
		Handler(r.getUserRoleHandler())

	v1.Methods(http.MethodPut).
		Path("/users/{user}/projects/{project}/roles/{role}").
		Handler(r.grantUserRoleHandler())

	v1.Methods(http.MethodDelete).
		Path("/users/{user}/projects/{project}/roles/{role}").
		Handler(r.revokeUserRoleHandler())
}

// createProjectHandler creates a project bundle
// swagger:route POST /api/v1/projects projects createProject
func (r Routing) createProjectHandler() http.Handler {
	return httptransport.NewServer(
		r.createProjectEndpoint(),
		decodeCreateProject,
		setStatusCreatedHeader(encodeJSON),
		r.defaultServerOptions()...,
	)
}

// getProjectHandler returns a project
// swagger:route GET /api/v1/projects/{project} projects getProject
func (r Routing) getProjectHandler() http.Handler {
	return httptransport.NewServer(
		r.getProjectEndpoint(),
		decodeProjectNameReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// deleteProjectHandler deletes a project bundle
// swagger:route DELETE /api/v1/projects/{project} projects deleteProject
func (r Routing) deleteProjectHandler() http.Handler {
	return httptransport.NewServer(
		r.deleteProjectEndpoint(),
		decodeProjectNameReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// createQuotaHandler creates the quota bundle for a project
// swagger:route POST /api/v1/projects/{project}/quotas quotas createQuota
func (r Routing) createQuotaHandler() http.Handler {
	return httptransport.NewServer(
		r.createQuotaEndpoint(),
		decodeQuotaReq,
		setStatusCreatedHeader(encodeJSON),
		r.defaultServerOptions()...,
	)
}

// getQuotaHandler returns the quotas of a project
// swagger:route GET /api/v1/projects/{project}/quotas quotas getQuota
func (r Routing) getQuotaHandler() http.Handler {
	return httptransport.NewServer(
		r.getQuotaEndpoint(),
		decodeProjectNameReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// updateQuotaHandler recreates the quota bundle for a project
// swagger:route PUT /api/v1/projects/{project}/quotas quotas updateQuota
func (r Routing) updateQuotaHandler() http.Handler {
	return httptransport.NewServer(
		r.updateQuotaEndpoint(),
		decodeQuotaReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// deleteQuotaHandler deletes the quota bundle of a project
// swagger:route DELETE /api/v1/projects/{project}/quotas quotas deleteQuota
func (r Routing) deleteQuotaHandler() http.Handler {
	return httptransport.NewServer(
		r.deleteQuotaEndpoint(),
		decodeProjectNameReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// createUserHandler creates a user bundle
// swagger:route POST /api/v1/users users createUser
func (r Routing) createUserHandler() http.Handler {
	return httptransport.NewServer(
		r.createUserEndpoint(),
		decodeCreateUser,
		setStatusCreatedHeader(encodeJSON),
		r.defaultServerOptions()...,
	)
}

// getUserHandler returns a user
// swagger:route GET /api/v1/users/{user} users getUser
func (r Routing) getUserHandler() http.Handler {
	return httptransport.NewServer(
		r.getUserEndpoint(),
		decodeUserNameReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// deleteUserHandler deletes a user bundle
// swagger:route DELETE /api/v1/users/{user} users deleteUser
func (r Routing) deleteUserHandler() http.Handler {
	return httptransport.NewServer(
		r.deleteUserEndpoint(),
		decodeUserNameReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// getUserRoleHandler reports whether a user holds a role in a project
// swagger:route GET /api/v1/users/{user}/projects/{project}/roles/{role} roles getUserRole
func (r Routing) getUserRoleHandler() http.Handler {
	return httptransport.NewServer(
		r.getUserRoleEndpoint(),
		decodeRoleReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// grantUserRoleHandler grants a role to a user in a project
// swagger:route PUT /api/v1/users/{user}/projects/{project}/roles/{role} roles grantUserRole
func (r Routing) grantUserRoleHandler() http.Handler {
	return httptransport.NewServer(
		r.grantUserRoleEndpoint(),
		decodeRoleReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}

// revokeUserRoleHandler revokes a role from a user in a project
// swagger:route DELETE /api/v1/users/{user}/projects/{project}/roles/{role} roles revokeUserRole
func (r Routing) revokeUserRoleHandler() http.Handler {
	return httptransport.NewServer(
		r.revokeUserRoleEndpoint(),
		decodeRoleReq,
		encodeJSON,
		r.defaultServerOptions()...,
	)
}
