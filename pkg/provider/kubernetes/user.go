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

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"

	userv1 "github.com/openshift/api/user/v1"
	"go.uber.org/zap"

	"github.com/larsks/acct-manager/pkg/provider"
)

// NewUserProvider returns a user provider. identityProvider is the name of
// the identity provider used to qualify identity names.
func NewUserProvider(client ctrlruntimeclient.Client, identityProvider string, log *zap.SugaredLogger) *UserProvider {
	return &UserProvider{
		client:           client,
		identityProvider: identityProvider,
		log:              log,
	}
}

var _ provider.UserProvider = &UserProvider{}

// UserProvider manages user bundles.
type UserProvider struct {
	client           ctrlruntimeclient.Client
	identityProvider string
	log              *zap.SugaredLogger
}

// qualifyUserName prefixes a user name with the identity provider name.
func (p *UserProvider) qualifyUserName(name string) string {
	return fmt.Sprintf("%s:%s", p.identityProvider, name)
}

// NewUserBundle creates a user, an identity, and a mapping linking the two.
// If the identity or the mapping fails to create, the whole bundle is
// deleted best-effort before the original error is returned.
func (p *UserProvider) NewUserBundle(ctx context.Context, name, fullName string) (*userv1.User, error) {
	p.log.Infow("create user bundle", "user", name)

	user, err := p.createUser(ctx, name, fullName)
	if err != nil {
		return nil, err
	}

	if err := p.createIdentityAndMapping(ctx, name); err != nil {
		p.log.Errorw("deleting user due to failure creating identity or mapping",
			"user", name, zap.Error(err))
		if cleanupErr := p.DeleteUserBundle(ctx, name); cleanupErr != nil {
			p.log.Errorw("failed to clean up partial user bundle",
				"user", name, zap.Error(cleanupErr))
		}
		return nil, err
	}

	return user, nil
}

func (p *UserProvider) createUser(ctx context.Context, name, fullName string) (*userv1.User, error) {
	if fullName == "" {
		fullName = name
	}

	user := &userv1.User{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
		FullName: fullName,
	}

	if err := p.client.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (p *UserProvider) createIdentityAndMapping(ctx context.Context, name string) error {
	qualified := p.qualifyUserName(name)

	identity := &userv1.Identity{
		ObjectMeta: metav1.ObjectMeta{
			Name: qualified,
		},
		ProviderName:     p.identityProvider,
		ProviderUserName: name,
	}
	if err := p.client.Create(ctx, identity); err != nil {
		return err
	}

	mapping := &userv1.UserIdentityMapping{
		ObjectMeta: metav1.ObjectMeta{
			Name: qualified,
		},
		User:     corev1.ObjectReference{Name: name},
		Identity: corev1.ObjectReference{Name: qualified},
	}

	return p.client.Create(ctx, mapping)
}

// Get returns the named user. Users are backend state and carry no
// ownership label, so no ownership check applies.
func (p *UserProvider) Get(ctx context.Context, name string) (*userv1.User, error) {
	user := &userv1.User{}
	if err := p.client.Get(ctx, types.NamespacedName{Name: name}, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUserBundle deletes the user's identity if present, removes the user
// from every managed group, and finally deletes the user itself.
func (p *UserProvider) DeleteUserBundle(ctx context.Context, name string) error {
	p.log.Infow("delete user bundle", "user", name)

	if err := p.deleteIdentity(ctx, name); err != nil {
		return err
	}

	if err := p.removeUserFromAllGroups(ctx, name); err != nil {
		return err
	}

	user, err := p.Get(ctx, name)
	if err != nil {
		return err
	}

	return p.client.Delete(ctx, user)
}

func (p *UserProvider) deleteIdentity(ctx context.Context, name string) error {
	qualified := p.qualifyUserName(name)

	identity := &userv1.Identity{}
	if err := p.client.Get(ctx, types.NamespacedName{Name: qualified}, identity); err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return err
	}

	return p.client.Delete(ctx, identity)
}

// removeUserFromAllGroups sweeps every group carrying the ownership label
// and drops the user from its member list. Groups that do not contain the
// user are left untouched; no-op updates are avoided.
func (p *UserProvider) removeUserFromAllGroups(ctx context.Context, name string) error {
	groups := &userv1.GroupList{}
	if err := p.client.List(ctx, groups, ownedBySelector()); err != nil {
		return err
	}

	for i := range groups.Items {
		group := &groups.Items[i]
		if !removeGroupUser(group, name) {
			continue
		}

		p.log.Debugw("removing user from group", "user", name, "group", group.Name)
		if err := p.client.Update(ctx, group); err != nil {
			return err
		}
	}

	return nil
}
