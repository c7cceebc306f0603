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

// Package kubernetes implements the provider interfaces against an
// OpenShift/Kubernetes cluster. Each bundle operation is a sequence of
// blocking calls against the cluster API; multi-step creates compensate for
// partial failure by deleting the whole attempted bundle.
package kubernetes

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"

	projectv1 "github.com/openshift/api/project/v1"
	userv1 "github.com/openshift/api/user/v1"
)

// NewScheme returns a runtime scheme holding every resource kind this
// service touches.
func NewScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()

	for _, install := range []func(*runtime.Scheme) error{
		corev1.AddToScheme,
		rbacv1.AddToScheme,
		userv1.Install,
		projectv1.Install,
	} {
		if err := install(scheme); err != nil {
			return nil, fmt.Errorf("failed to register scheme: %w", err)
		}
	}

	return scheme, nil
}

// NewClient creates a controller-runtime client for the cluster. The
// in-cluster configuration is preferred; when unavailable the given
// kubeconfig is used instead.
func NewClient(kubeconfig string) (ctrlruntimeclient.Client, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load cluster configuration: %w", err)
		}
	}

	scheme, err := NewScheme()
	if err != nil {
		return nil, err
	}

	return ctrlruntimeclient.New(config, ctrlruntimeclient.Options{Scheme: scheme})
}
