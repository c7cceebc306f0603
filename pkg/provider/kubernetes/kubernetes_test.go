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

package kubernetes_test

import (
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
	fakectrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	projectv1 "github.com/openshift/api/project/v1"
	userv1 "github.com/openshift/api/user/v1"
	"go.uber.org/zap"

	"github.com/larsks/acct-manager/pkg/provider/kubernetes"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()

	scheme, err := kubernetes.NewScheme()
	if err != nil {
		t.Fatalf("failed to build scheme: %v", err)
	}

	return scheme
}

func newTestClient(t *testing.T, objects ...ctrlruntimeclient.Object) ctrlruntimeclient.Client {
	t.Helper()

	return fakectrlruntimeclient.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(objects...).
		Build()
}

func newTestClientWithInterceptors(t *testing.T, funcs interceptor.Funcs, objects ...ctrlruntimeclient.Object) ctrlruntimeclient.Client {
	t.Helper()

	return fakectrlruntimeclient.NewClientBuilder().
		WithScheme(testScheme(t)).
		WithObjects(objects...).
		WithInterceptorFuncs(funcs).
		Build()
}

func testLog() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func genProject(name string) *projectv1.Project {
	return &projectv1.Project{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			Labels: map[string]string{
				kubernetes.OwnershipLabel: name,
			},
			Annotations: map[string]string{
				"openshift.io/requester": "tester",
			},
		},
	}
}

// genForeignProject returns a project without the ownership label, as if it
// had been created outside this service.
func genForeignProject(name string) *projectv1.Project {
	return &projectv1.Project{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
	}
}

func genGroup(project, role string, users ...string) *userv1.Group {
	return &userv1.Group{
		ObjectMeta: metav1.ObjectMeta{
			Name: project + "-" + role,
			Labels: map[string]string{
				kubernetes.OwnershipLabel: project,
			},
		},
		Users: userv1.OptionalNames(users),
	}
}
