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

	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"

	userv1 "github.com/openshift/api/user/v1"
	"go.uber.org/zap"

	"github.com/larsks/acct-manager/pkg/provider"
)

// NewRoleProvider returns a role provider.
func NewRoleProvider(client ctrlruntimeclient.Client, log *zap.SugaredLogger) *RoleProvider {
	return &RoleProvider{
		client: client,
		log:    log,
	}
}

var _ provider.RoleProvider = &RoleProvider{}

// RoleProvider manages role membership through the per-project role groups.
type RoleProvider struct {
	client ctrlruntimeclient.Client
	log    *zap.SugaredLogger
}

// resolveGroup validates the role name, verifies the project exists and is
// owned, and returns the matching role group. All checks run before any
// mutation.
func (p *RoleProvider) resolveGroup(ctx context.Context, project, role string) (*userv1.Group, error) {
	if err := validateRoleName(role); err != nil {
		return nil, err
	}

	if _, err := getProject(ctx, p.client, project); err != nil {
		return nil, err
	}

	return getGroup(ctx, p.client, groupName(project, role))
}

// Grant adds the user to the role group. Granting a role the user already
// has is a no-op: the group is returned unchanged and no update is issued.
func (p *RoleProvider) Grant(ctx context.Context, user, project, role string) (*userv1.Group, error) {
	group, err := p.resolveGroup(ctx, project, role)
	if err != nil {
		return nil, err
	}

	if groupHasUser(group, user) {
		return group, nil
	}

	p.log.Infow("grant role", "user", user, "project", project, "role", role)
	group.Users = append(group.Users, user)
	if err := p.client.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// Revoke removes the user from the role group. Revoking a role the user
// never had is a no-op.
func (p *RoleProvider) Revoke(ctx context.Context, user, project, role string) (*userv1.Group, error) {
	group, err := p.resolveGroup(ctx, project, role)
	if err != nil {
		return nil, err
	}

	if !removeGroupUser(group, user) {
		return group, nil
	}

	p.log.Infow("revoke role", "user", user, "project", project, "role", role)
	if err := p.client.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// Has returns true if the user is a member of the role group.
func (p *RoleProvider) Has(ctx context.Context, user, project, role string) (bool, error) {
	group, err := p.resolveGroup(ctx, project, role)
	if err != nil {
		return false, err
	}

	return groupHasUser(group, user), nil
}
