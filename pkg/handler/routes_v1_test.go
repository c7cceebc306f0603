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

package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
	fakectrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client/fake"

	projectv1 "github.com/openshift/api/project/v1"
	userv1 "github.com/openshift/api/user/v1"
	"go.uber.org/zap"

	apiv1 "github.com/larsks/acct-manager/pkg/api/v1"
	"github.com/larsks/acct-manager/pkg/handler"
	"github.com/larsks/acct-manager/pkg/provider/kubernetes"
	"github.com/larsks/acct-manager/pkg/quota"
)

// staticSource serves a fixed quota definition.
type staticSource struct {
	file *quota.File
}

func (s *staticSource) Read() (*quota.File, error) {
	return s.file, nil
}

func testQuotaFile() *quota.File {
	return &quota.File{
		Quotas: []quota.QuotaSpec{
			{
				Scopes: []quota.Scope{quota.ScopeProject},
				Values: map[string]quota.ScaledValue{
					"requests.cpu": {Base: 2, Coefficient: 1},
				},
			},
		},
	}
}

func testRouter(t *testing.T, auth handler.AuthConfig, objects ...ctrlruntimeclient.Object) *mux.Router {
	t.Helper()

	scheme, err := kubernetes.NewScheme()
	if err != nil {
		t.Fatalf("failed to build scheme: %v", err)
	}

	client := fakectrlruntimeclient.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objects...).
		Build()

	log := zap.NewNop().Sugar()
	routing := handler.NewRouting(
		log,
		kubernetes.NewProjectProvider(client, log),
		kubernetes.NewUserProvider(client, "sso", log),
		kubernetes.NewRoleProvider(client, log),
		kubernetes.NewQuotaProvider(client, &staticSource{file: testQuotaFile()}, log),
		auth,
	)

	router := mux.NewRouter()
	routing.RegisterV1(router)

	return router
}

func noAuth() handler.AuthConfig {
	return handler.AuthConfig{Disabled: true}
}

func genProject(name string) *projectv1.Project {
	return &projectv1.Project{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: map[string]string{kubernetes.OwnershipLabel: name},
			Annotations: map[string]string{
				"openshift.io/requester":    "tester",
				"openshift.io/display-name": "Test Project",
			},
		},
	}
}

func genGroup(project, role string, users ...string) *userv1.Group {
	return &userv1.Group{
		ObjectMeta: metav1.ObjectMeta{
			Name:   project + "-" + role,
			Labels: map[string]string{kubernetes.OwnershipLabel: project},
		},
		Users: userv1.OptionalNames(users),
	}
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	return res
}

func TestCreateProject(t *testing.T) {
	router := testRouter(t, noAuth())

	res := doRequest(t, router, http.MethodPost, "/api/v1/projects",
		`{"name": "test-project", "requester": "alice", "displayName": "Test"}`)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, res.Code, res.Body.String())
	}

	var project apiv1.Project
	if err := json.Unmarshal(res.Body.Bytes(), &project); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if project.Name != "test-project" || project.Requester != "alice" || project.DisplayName != "Test" {
		t.Fatalf("unexpected response %+v", project)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	testcases := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"requester": "alice"}`},
		{name: "missing requester", body: `{"name": "test-project"}`},
		{name: "invalid name", body: `{"name": "Not Valid", "requester": "alice"}`},
		{name: "unparseable body", body: `{not json`},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(t, noAuth())

			res := doRequest(t, router, http.MethodPost, "/api/v1/projects", tc.body)
			if res.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, res.Code, res.Body.String())
			}
		})
	}
}

func TestCreateProjectConflict(t *testing.T) {
	router := testRouter(t, noAuth(), genProject("test-project"))

	res := doRequest(t, router, http.MethodPost, "/api/v1/projects",
		`{"name": "test-project", "requester": "alice"}`)
	if res.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d: %s", http.StatusConflict, res.Code, res.Body.String())
	}
}

func TestGetProject(t *testing.T) {
	router := testRouter(t, noAuth(), genProject("test-project"))

	res := doRequest(t, router, http.MethodGet, "/api/v1/projects/test-project", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, res.Code, res.Body.String())
	}

	var project apiv1.Project
	if err := json.Unmarshal(res.Body.Bytes(), &project); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if project.DisplayName != "Test Project" {
		t.Fatalf("unexpected response %+v", project)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	router := testRouter(t, noAuth())

	res := doRequest(t, router, http.MethodGet, "/api/v1/projects/no-such-project", "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d: %s", http.StatusNotFound, res.Code, res.Body.String())
	}
}

func TestGetForeignProject(t *testing.T) {
	foreign := &projectv1.Project{ObjectMeta: metav1.ObjectMeta{Name: "foreign"}}
	router := testRouter(t, noAuth(), foreign)

	res := doRequest(t, router, http.MethodGet, "/api/v1/projects/foreign", "")
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, res.Code, res.Body.String())
	}
	// backend detail must not leak to the client
	if strings.Contains(res.Body.String(), "label") {
		t.Fatalf("response leaks backend details: %s", res.Body.String())
	}
}

func TestDeleteProject(t *testing.T) {
	router := testRouter(t, noAuth(),
		genProject("test-project"),
		genGroup("test-project", "admin"),
		genGroup("test-project", "member"),
		genGroup("test-project", "reader"),
	)

	res := doRequest(t, router, http.MethodDelete, "/api/v1/projects/test-project", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, res.Code, res.Body.String())
	}

	res = doRequest(t, router, http.MethodGet, "/api/v1/projects/test-project", "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected status %d after deletion, got %d", http.StatusNotFound, res.Code)
	}
}

func TestCreateUser(t *testing.T) {
	router := testRouter(t, noAuth())

	res := doRequest(t, router, http.MethodPost, "/api/v1/users",
		`{"name": "alice", "fullName": "Alice Example"}`)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, res.Code, res.Body.String())
	}

	var user apiv1.User
	if err := json.Unmarshal(res.Body.Bytes(), &user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.Name != "alice" || user.FullName != "Alice Example" {
		t.Fatalf("unexpected response %+v", user)
	}
}

func TestUserLifecycle(t *testing.T) {
	router := testRouter(t, noAuth())

	if res := doRequest(t, router, http.MethodPost, "/api/v1/users", `{"name": "alice"}`); res.Code != http.StatusCreated {
		t.Fatalf("create failed with status %d: %s", res.Code, res.Body.String())
	}
	if res := doRequest(t, router, http.MethodGet, "/api/v1/users/alice", ""); res.Code != http.StatusOK {
		t.Fatalf("get failed with status %d: %s", res.Code, res.Body.String())
	}
	if res := doRequest(t, router, http.MethodDelete, "/api/v1/users/alice", ""); res.Code != http.StatusOK {
		t.Fatalf("delete failed with status %d: %s", res.Code, res.Body.String())
	}
	if res := doRequest(t, router, http.MethodGet, "/api/v1/users/alice", ""); res.Code != http.StatusNotFound {
		t.Fatalf("expected status %d after deletion, got %d", http.StatusNotFound, res.Code)
	}
}

func TestRoleEndpoints(t *testing.T) {
	router := testRouter(t, noAuth(),
		genProject("test-project"),
		genGroup("test-project", "admin"),
	)

	assertHasRole := func(expected bool) {
		t.Helper()

		res := doRequest(t, router, http.MethodGet, "/api/v1/users/alice/projects/test-project/roles/admin", "")
		if res.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, res.Code, res.Body.String())
		}

		var status apiv1.RoleStatus
		if err := json.Unmarshal(res.Body.Bytes(), &status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if status.HasRole != expected {
			t.Fatalf("expected hasRole=%v, got %+v", expected, status)
		}
	}

	assertHasRole(false)

	res := doRequest(t, router, http.MethodPut, "/api/v1/users/alice/projects/test-project/roles/admin", "")
	if res.Code != http.StatusOK {
		t.Fatalf("grant failed with status %d: %s", res.Code, res.Body.String())
	}

	var group apiv1.Group
	if err := json.Unmarshal(res.Body.Bytes(), &group); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(group.Users) != 1 || group.Users[0] != "alice" {
		t.Fatalf("unexpected group %+v", group)
	}

	assertHasRole(true)

	res = doRequest(t, router, http.MethodDelete, "/api/v1/users/alice/projects/test-project/roles/admin", "")
	if res.Code != http.StatusOK {
		t.Fatalf("revoke failed with status %d: %s", res.Code, res.Body.String())
	}

	assertHasRole(false)
}

func TestRoleInvalidName(t *testing.T) {
	router := testRouter(t, noAuth(),
		genProject("test-project"),
		genGroup("test-project", "admin"),
	)

	res := doRequest(t, router, http.MethodPut, "/api/v1/users/alice/projects/test-project/roles/overlord", "")
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, res.Code, res.Body.String())
	}
}

func TestQuotaEndpoints(t *testing.T) {
	router := testRouter(t, noAuth(), genProject("test-project"))

	res := doRequest(t, router, http.MethodPost, "/api/v1/projects/test-project/quotas", `{"multiplier": 2}`)
	if res.Code != http.StatusCreated {
		t.Fatalf("create failed with status %d: %s", res.Code, res.Body.String())
	}

	var list apiv1.QuotaList
	if err := json.Unmarshal(res.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list.Quotas) != 1 {
		t.Fatalf("unexpected quota list %+v", list)
	}

	res = doRequest(t, router, http.MethodGet, "/api/v1/projects/test-project/quotas", "")
	if res.Code != http.StatusOK {
		t.Fatalf("get failed with status %d: %s", res.Code, res.Body.String())
	}

	res = doRequest(t, router, http.MethodPut, "/api/v1/projects/test-project/quotas", `{"multiplier": 3}`)
	if res.Code != http.StatusOK {
		t.Fatalf("update failed with status %d: %s", res.Code, res.Body.String())
	}

	res = doRequest(t, router, http.MethodDelete, "/api/v1/projects/test-project/quotas", "")
	if res.Code != http.StatusOK {
		t.Fatalf("delete failed with status %d: %s", res.Code, res.Body.String())
	}

	res = doRequest(t, router, http.MethodGet, "/api/v1/projects/test-project/quotas", "")
	if res.Code != http.StatusOK {
		t.Fatalf("get failed with status %d: %s", res.Code, res.Body.String())
	}
	if err := json.Unmarshal(res.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list.Quotas) != 0 || len(list.Limits) != 0 {
		t.Fatalf("expected an empty quota list, got %+v", list)
	}
}

func TestQuotaInvalidMultiplier(t *testing.T) {
	router := testRouter(t, noAuth(), genProject("test-project"))

	for _, body := range []string{`{"multiplier": 0}`, `{"multiplier": -2}`, `{}`} {
		res := doRequest(t, router, http.MethodPost, "/api/v1/projects/test-project/quotas", body)
		if res.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected status %d, got %d", body, http.StatusBadRequest, res.Code)
		}
	}
}

func TestBasicAuth(t *testing.T) {
	auth := handler.AuthConfig{Username: "admin", Password: "secret"}
	router := testRouter(t, auth, genProject("test-project"))

	// no credentials
	res := doRequest(t, router, http.MethodGet, "/api/v1/projects/test-project", "")
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, res.Code)
	}

	// wrong credentials
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/test-project", nil)
	req.SetBasicAuth("admin", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	// valid credentials
	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects/test-project", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestHealthzSkipsAuth(t *testing.T) {
	auth := handler.AuthConfig{Username: "admin", Password: "secret"}
	router := testRouter(t, auth)

	res := doRequest(t, router, http.MethodGet, "/api/healthz", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, res.Code)
	}
}
