package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	corev1 "k8s.io/api/core/v1"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"

	apiv1 "github.com/larsks/acct-manager/pkg/api/v1"
	"github.com/larsks/acct-manager/pkg/util/errors"
)

// QuotaReq defines HTTP request for quota create/update endpoints
// swagger:parameters createQuota updateQuota
type QuotaReq struct {
	// in: path
	ProjectName string `json:"project"`
	// in: body
	Body apiv1.QuotaRequest
}

func decodeQuotaReq(c context.Context, r *http.Request) (interface{}, error) {
	req := QuotaReq{ProjectName: mux.Vars(r)["project"]}

	if err := json.NewDecoder(r.Body).Decode(&req.Body); err != nil {
		return nil, errors.NewBadRequest("invalid request body: %v", err)
	}

	return req, nil
}

func (r Routing) createQuotaEndpoint() endpoint.Endpoint {
	return r.quotaEndpoint(r.quotaProvider.NewQuotaBundle)
}

func (r Routing) updateQuotaEndpoint() endpoint.Endpoint {
	return r.quotaEndpoint(r.quotaProvider.UpdateQuotaBundle)
}

func (r Routing) quotaEndpoint(operation func(context.Context, string, int) ([]corev1.ResourceQuota, *corev1.LimitRange, error)) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(QuotaReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, QuotaReq{})
		}

		if req.Body.Multiplier < 1 {
			return nil, errors.NewBadRequest("multiplier must be a positive non-zero integer")
		}

		quotas, limitRange, err := operation(ctx, req.ProjectName, req.Body.Multiplier)
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		if quotas == nil {
			quotas = []corev1.ResourceQuota{}
		}
		limits := []corev1.LimitRange{}
		if limitRange != nil {
			limits = append(limits, *limitRange)
		}

		return apiv1.QuotaList{Quotas: quotas, Limits: limits}, nil
	}
}

func (r Routing) getQuotaEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(ProjectNameReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, ProjectNameReq{})
		}

		quotas, limits, err := r.quotaProvider.Get(ctx, req.ProjectName)
		if err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		if quotas == nil {
			quotas = []corev1.ResourceQuota{}
		}
		if limits == nil {
			limits = []corev1.LimitRange{}
		}

		return apiv1.QuotaList{Quotas: quotas, Limits: limits}, nil
	}
}

func (r Routing) deleteQuotaEndpoint() endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(ProjectNameReq)
		if !ok {
			return nil, errors.NewWrongRequest(request, ProjectNameReq{})
		}

		if err := r.quotaProvider.DeleteQuotaBundle(ctx, req.ProjectName); err != nil {
			return nil, providerErrorToHTTPError(r.log, err)
		}

		return apiv1.Message{Message: fmt.Sprintf("deleted quotas for project %s", req.ProjectName)}, nil
	}
}
