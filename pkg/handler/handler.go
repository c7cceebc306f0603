/*
Copyright 2022 the acct-manager contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"go.uber.org/zap"

	"github.com/larsks/acct-manager/pkg/util/errors"
)

const (
	headerContentType = "Content-Type"

	contentTypeJSON = "application/json"
)

// ErrorResponse is the default representation of an error
// swagger:model errorResponse
type ErrorResponse struct {
	// The error details
	// in: body
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contains details about the error
type ErrorDetails struct {
	// The error code
	//
	// Required: true
	Code int `json:"code"`
	// The error message
	//
	// Required: true
	Message string `json:"message"`
}

func errorEncoder(ctx context.Context, err error, w http.ResponseWriter) {
	errorCode := http.StatusInternalServerError
	msg := err.Error()
	if h, ok := err.(errors.HTTPError); ok {
		errorCode = h.StatusCode()
		msg = h.Error()
	}
	e := ErrorResponse{
		Error: ErrorDetails{
			Code:    errorCode,
			Message: msg,
		},
	}

	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(errorCode)
	if err := json.NewEncoder(w).Encode(e); err != nil {
		zap.S().Errorw("failed to encode error response", zap.Error(err))
	}
}

// encodeJSON writes the JSON encoding of response to the http response writer
func encodeJSON(c context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set(headerContentType, contentTypeJSON)

	// For completely empty responses, we still want to ensure that we
	// send a JSON object instead of the string "null".
	if response == nil {
		_, err := w.Write([]byte("{}"))
		return err
	}

	return json.NewEncoder(w).Encode(response)
}

// StatusOK returns the status code 200
func StatusOK(res http.ResponseWriter, _ *http.Request) {
	res.WriteHeader(http.StatusOK)
}

func setStatusCreatedHeader(f func(context.Context, http.ResponseWriter, interface{}) error) func(context.Context, http.ResponseWriter, interface{}) error {
	return func(ctx context.Context, r http.ResponseWriter, i interface{}) error {
		r.Header().Set(headerContentType, contentTypeJSON)
		r.WriteHeader(http.StatusCreated)
		return f(ctx, r, i)
	}
}

// providerErrorToHTTPError folds typed provider errors and backend status
// errors into HTTPErrors with stable status codes. Unclassified backend
// errors are logged in full but surface only a generic message.
func providerErrorToHTTPError(log *zap.SugaredLogger, err error) error {
	switch {
	case errors.IsValidation(err), errors.IsInvalidRoleName(err):
		return errors.NewBadRequest("%s", err.Error())

	case errors.IsInvalidProject(err):
		// an attempt to operate on a resource we do not own; log it, the
		// client only learns that the project is invalid
		log.Warnw("attempt to operate on invalid object", zap.Error(err))
		return errors.NewBadRequest("invalid project")

	case errors.IsAlreadyExists(err):
		return errors.New(http.StatusConflict, err.Error())

	case errors.Is(err, errors.ErrNoQuotasConfigured):
		return errors.NewBadRequest("%s", err.Error())

	case apierrors.IsNotFound(err):
		return errors.New(http.StatusNotFound, "object not found")

	case apierrors.IsAlreadyExists(err), apierrors.IsConflict(err):
		return errors.New(http.StatusConflict, "object already exists")

	default:
		log.Errorw("unexpected backend error", zap.Error(err))
		return errors.New(http.StatusInternalServerError, "unexpected backend error")
	}
}
