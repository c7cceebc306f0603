package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"

	projectv1 "github.com/openshift/api/project/v1"

	apiv1 "github.com/larsks/acct-manager/pkg/api/v1"
	"github.com/larsks/acct-manager/pkg/provider"
	"github.com/larsks/acct-manager/pkg/util/errors"
)

const (
	annotationDisplayName = "openshift.io/display-name"
	annotationDescription = "openshift.io/description"
	annotationRequester   = "openshift.io/requester"
)

// createProjectEndpoint defines an HTTP endpoint that creates a project bundle
func (r Routing) createProjectEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(apiv1.ProjectRequest)
		if !ok {
			return nil, errors.NewWrongRequest(request, apiv1.ProjectRequest{})
		}

		if len(req.Name) == 0 {
			return nil, errors.NewBadRequest("the name of the project cannot be empty")
		}
		if len(req.Requester) == 0 {
			return nil, errors.NewBadRequest("the requester of the project cannot be empty")
		}

		project, err := r.projectProvider.NewProjectBundle(ctx, provider.ProjectSpec{
			Name:        req.Name,
			Requester:   req.Requester,
			DisplayName: req.DisplayName,
			Description: req.Description,
		})
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return convertInternalProjectToExternal(project), nil
	}
}

func (r Routing) getProjectEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(ProjectNameReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, ProjectNameReq{})
		}

		project, err := r.projectProvider.Get(ctx, req.ProjectName)
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return convertInternalProjectToExternal(project), nil
	}
}

func (r Routing) deleteProjectEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(ProjectNameReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, ProjectNameReq{})
		}

		if err := r.projectProvider.DeleteProjectBundle(ctx, req.ProjectName); err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return apiv1.Message{Message: fmt.Sprintf("deleted project %s", req.ProjectName)}, nil
	}
}

func convertInternalProjectToExternal(project *projectv1.Project) *apiv1.Project {
	return &apiv1.Project{
		Name:        project.Name,
		DisplayName: project.Annotations[annotationDisplayName],
		Description: project.Annotations[annotationDescription],
		Requester:   project.Annotations[annotationRequester],
	}
}

func decodeCreateProject(c context.Context, r *http.Request) (interface{}, error) {
	var req apiv1.ProjectRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.NewBadRequest("invalid request body: %v", err)
	}

	return req, nil
}

// ProjectNameReq defines HTTP request that names a project in its path
// swagger:parameters getProject deleteProject
type ProjectNameReq struct {
	// in: path
	ProjectName string `json:"project"`
}

func decodeProjectNameReq(c context.Context, r *http.Request) (interface{}, error) {
	return ProjectNameReq{ProjectName: mux.Vars(r)["project"]}, nil
}
