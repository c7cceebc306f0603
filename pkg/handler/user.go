package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"

	userv1 "github.com/openshift/api/user/v1"

	apiv1 "github.com/larsks/acct-manager/pkg/api/v1"
	"github.com/larsks/acct-manager/pkg/util/errors"
)

func (r Routing) createUserEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(apiv1.UserRequest)
		if !ok {
			return nil, errors.NewWrongRequest(request, apiv1.UserRequest{})
		}

		if len(req.Name) == 0 {
			return nil, errors.NewBadRequest("the name of the user cannot be empty")
		}

		user, err := r.userProvider.NewUserBundle(ctx, req.Name, req.FullName)
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return convertInternalUserToExternal(user), nil
	}
}

func (r Routing) getUserEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(UserNameReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, UserNameReq{})
		}

		user, err := r.userProvider.Get(ctx, req.UserName)
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return convertInternalUserToExternal(user), nil
	}
}

func (r Routing) deleteUserEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(UserNameReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, UserNameReq{})
		}

		if err := r.userProvider.DeleteUserBundle(ctx, req.UserName); err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return apiv1.Message{Message: fmt.Sprintf("deleted user %s", req.UserName)}, nil
	}
}

func convertInternalUserToExternal(user *userv1.User) *apiv1.User {
	return &apiv1.User{
		Name:       user.Name,
		FullName:   user.FullName,
		Groups:     user.Groups,
		Identities: user.Identities,
	}
}

func convertInternalGroupToExternal(group *userv1.Group) *apiv1.Group {
	users := []string{}
	if group.Users != nil {
		users = []string(group.Users)
	}

	return &apiv1.Group{
		Name:  group.Name,
		Users: users,
	}
}

func decodeCreateUser(c context.Context, r *http.Request) (interface{}, error) {
	var req apiv1.UserRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.NewBadRequest("invalid request body: %v", err)
	}

	return req, nil
}

// UserNameReq defines HTTP request that names a user in its path
// swagger:parameters getUser deleteUser
type UserNameReq struct {
	// in: path
	UserName string `json:"user"`
}

func decodeUserNameReq(c context.Context, r *http.Request) (interface{}, error) {
	return UserNameReq{UserName: mux.Vars(r)["user"]}, nil
}
