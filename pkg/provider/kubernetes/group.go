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

	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"

	userv1 "github.com/openshift/api/user/v1"

	"github.com/larsks/acct-manager/pkg/util/errors"
)

// getGroup returns the named group, rejecting groups that do not carry the
// ownership label.
func getGroup(ctx context.Context, client ctrlruntimeclient.Client, name string) (*userv1.Group, error) {
	group, err := getGroupUnsafe(ctx, client, name)
	if err != nil {
		return nil, err
	}

	if err := checkOwnership("Group", group); err != nil {
		return nil, err
	}

	return group, nil
}

// getGroupUnsafe returns the named group without an ownership check.
func getGroupUnsafe(ctx context.Context, client ctrlruntimeclient.Client, name string) (*userv1.Group, error) {
	group := &userv1.Group{}
	if err := client.Get(ctx, types.NamespacedName{Name: name}, group); err != nil {
		return nil, err
	}

	return group, nil
}

// createGroup creates a new, empty group owned by the given project.
func createGroup(ctx context.Context, client ctrlruntimeclient.Client, name, project string) (*userv1.Group, error) {
	if _, err := getGroupUnsafe(ctx, client, name); err == nil {
		return nil, &errors.AlreadyExistsError{Kind: "Group", Name: name}
	} else if !apierrors.IsNotFound(err) {
		return nil, err
	}

	group := &userv1.Group{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
		Users: userv1.OptionalNames{},
	}
	addOwnershipLabel(group, project)

	if err := client.Create(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// deleteGroup deletes a group. A missing group is not an error; a group
// lacking the ownership label is.
func deleteGroup(ctx context.Context, client ctrlruntimeclient.Client, name string) error {
	group, err := getGroup(ctx, client, name)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	return client.Delete(ctx, group)
}

// createRoleBinding binds the given group to the backend role within the
// project namespace. Binding and group share a name.
func createRoleBinding(ctx context.Context, client ctrlruntimeclient.Client, project, group, role string) (*rbacv1.RoleBinding, error) {
	if err := validateRoleName(role); err != nil {
		return nil, err
	}

	binding := &rbacv1.RoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name:      groupName(project, role),
			Namespace: project,
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     roleMap[role],
		},
		Subjects: []rbacv1.Subject{
			{
				APIGroup: rbacv1.GroupName,
				Kind:     "Group",
				Name:     group,
			},
		},
	}
	addOwnershipLabel(binding, project)

	if err := client.Create(ctx, binding); err != nil {
		return nil, err
	}

	return binding, nil
}

// groupHasUser returns true if the given user appears in the group's member
// list.
func groupHasUser(group *userv1.Group, user string) bool {
	for _, member := range group.Users {
		if member == user {
			return true
		}
	}

	return false
}

// removeGroupUser removes the user from the group's member list, returning
// false when the user was not a member.
func removeGroupUser(group *userv1.Group, user string) bool {
	for i, member := range group.Users {
		if member == user {
			group.Users = append(group.Users[:i], group.Users[i+1:]...)
			return true
		}
	}

	return false
}
