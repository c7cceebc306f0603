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

package kubernetes

import (
	"context"
	"fmt"
	"regexp"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"

	projectv1 "github.com/openshift/api/project/v1"

	"github.com/larsks/acct-manager/pkg/util/errors"
)

const (
	// OwnershipLabel marks every resource this service creates. Resources
	// lacking the label are foreign and must never be mutated or deleted.
	OwnershipLabel = "massopen.cloud/project"

	annotationDisplayName = "openshift.io/display-name"
	annotationDescription = "openshift.io/description"
	annotationRequester   = "openshift.io/requester"
)

// roleMap maps the fixed role vocabulary onto backend cluster roles.
var roleMap = map[string]string{
	"admin":  "admin",
	"member": "edit",
	"reader": "view",
}

// roleNames fixes the iteration order for bundle operations.
var roleNames = []string{"admin", "member", "reader"}

// validateRoleName checks the given role against the fixed role vocabulary.
// It runs before any backend call is made.
func validateRoleName(role string) error {
	if _, ok := roleMap[role]; !ok {
		return &errors.InvalidRoleNameError{Role: role}
	}

	return nil
}

// groupName derives the name of the group for the given project and role.
// The rolebinding for the group shares this name, which keeps lookups simple.
func groupName(project, role string) string {
	return fmt.Sprintf("%s-%s", project, role)
}

var projectNameRegexp = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// validateProjectName rejects names that do not satisfy the restricted
// naming pattern. Names are never rewritten on the caller's behalf.
func validateProjectName(name string) error {
	if !projectNameRegexp.MatchString(name) {
		return errors.NewValidation("invalid project name %q", name)
	}

	return nil
}

// addOwnershipLabel attaches the ownership label to the given object.
func addOwnershipLabel(obj metav1.Object, project string) {
	labels := obj.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}

	labels[OwnershipLabel] = project
	obj.SetLabels(labels)
}

// checkOwnership verifies that the object carries the ownership label.
// Only presence is checked, not the label value; a resource labeled for one
// project is considered safe to touch from any project's operations.
func checkOwnership(kind string, obj metav1.Object) error {
	if _, ok := obj.GetLabels()[OwnershipLabel]; !ok {
		return &errors.InvalidProjectError{Kind: kind, Name: obj.GetName()}
	}

	return nil
}

// ownedBySelector matches every resource carrying the ownership label,
// regardless of value.
func ownedBySelector() ctrlruntimeclient.ListOption {
	return ctrlruntimeclient.HasLabels{OwnershipLabel}
}

// getProject returns the named project, rejecting projects that do not carry
// the ownership label.
func getProject(ctx context.Context, client ctrlruntimeclient.Client, name string) (*projectv1.Project, error) {
	project := &projectv1.Project{}
	if err := client.Get(ctx, types.NamespacedName{Name: name}, project); err != nil {
		return nil, err
	}

	if err := checkOwnership("Project", project); err != nil {
		return nil, err
	}

	return project, nil
}
