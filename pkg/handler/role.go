package handler

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"

	apiv1 "github.com/larsks/acct-manager/pkg/api/v1"
	"github.com/larsks/acct-manager/pkg/util/errors"
)

// RoleReq defines HTTP request that names a user, project, and role in its path
// swagger:parameters getUserRole grantUserRole revokeUserRole
type RoleReq struct {
	// in: path
	UserName string `json:"user"`
	// in: path
	ProjectName string `json:"project"`
	// in: path
	RoleName string `json:"role"`
}

func decodeRoleReq(c context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	return RoleReq{
		UserName:    vars["user"],
		ProjectName: vars["project"],
		RoleName:    vars["role"],
	}, nil
}

func (r Routing) getUserRoleEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(RoleReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, RoleReq{})
		}

		hasRole, err := r.roleProvider.Has(ctx, req.UserName, req.ProjectName, req.RoleName)
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return apiv1.RoleStatus{
			User:    req.UserName,
			Project: req.ProjectName,
			Role:    req.RoleName,
			HasRole: hasRole,
		}, nil
	}
}

func (r Routing) grantUserRoleEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(RoleReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, RoleReq{})
		}

		group, err := r.roleProvider.Grant(ctx, req.UserName, req.ProjectName, req.RoleName)
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return convertInternalGroupToExternal(group), nil
	}
}

func (r Routing) revokeUserRoleEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(RoleReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, RoleReq{})
		}

		group, err := r.roleProvider.Revoke(ctx, req.UserName, req.ProjectName, req.RoleName)
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return convertInternalGroupToExternal(group), nil
	}
}
