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

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"

	projectv1 "github.com/openshift/api/project/v1"
	"go.uber.org/zap"

	"github.com/larsks/acct-manager/pkg/provider"
	"github.com/larsks/acct-manager/pkg/util/errors"
)

// NewProjectProvider returns a project provider.
func NewProjectProvider(client ctrlruntimeclient.Client, log *zap.SugaredLogger) *ProjectProvider {
	return &ProjectProvider{
		client: client,
		log:    log,
	}
}

var _ provider.ProjectProvider = &ProjectProvider{}

// ProjectProvider manages project bundles.
type ProjectProvider struct {
	client ctrlruntimeclient.Client
	log    *zap.SugaredLogger
}

// NewProjectBundle creates a project together with one group per role and a
// rolebinding binding each group to its backend role. If any group or
// binding fails to create, the whole bundle is deleted before the original
// error is returned; a partial bundle is never left behind.
func (p *ProjectProvider) NewProjectBundle(ctx context.Context, spec provider.ProjectSpec) (*projectv1.Project, error) {
	if err := validateProjectName(spec.Name); err != nil {
		return nil, err
	}

	p.log.Infow("create project bundle", "project", spec.Name)

	project, err := p.createProject(ctx, spec)
	if err != nil {
		return nil, err
	}

	for _, role := range roleNames {
		if err := p.createRoleGroup(ctx, spec.Name, role); err != nil {
			p.log.Errorw("deleting project due to failure creating groups or rolebinding",
				"project", spec.Name, zap.Error(err))
			if cleanupErr := p.DeleteProjectBundle(ctx, spec.Name); cleanupErr != nil {
				p.log.Errorw("failed to clean up partial project bundle",
					"project", spec.Name, zap.Error(cleanupErr))
			}
			return nil, err
		}
	}

	return project, nil
}

func (p *ProjectProvider) createProject(ctx context.Context, spec provider.ProjectSpec) (*projectv1.Project, error) {
	existing := &projectv1.Project{}
	if err := p.client.Get(ctx, types.NamespacedName{Name: spec.Name}, existing); err == nil {
		return nil, &errors.AlreadyExistsError{Kind: "Project", Name: spec.Name}
	} else if !apierrors.IsNotFound(err) {
		return nil, err
	}

	annotations := map[string]string{
		annotationRequester: spec.Requester,
	}
	if spec.DisplayName != "" {
		annotations[annotationDisplayName] = spec.DisplayName
	}
	if spec.Description != "" {
		annotations[annotationDescription] = spec.Description
	}

	project := &projectv1.Project{
		ObjectMeta: metav1.ObjectMeta{
			Name:        spec.Name,
			Annotations: annotations,
		},
	}
	addOwnershipLabel(project, spec.Name)

	if err := p.client.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

func (p *ProjectProvider) createRoleGroup(ctx context.Context, project, role string) error {
	name := groupName(project, role)

	if _, err := createGroup(ctx, p.client, name, project); err != nil {
		return err
	}

	_, err := createRoleBinding(ctx, p.client, project, name, role)
	return err
}

// Get returns the named project. Projects that exist but do not carry the
// ownership label are rejected with an InvalidProjectError.
func (p *ProjectProvider) Get(ctx context.Context, name string) (*projectv1.Project, error) {
	return getProject(ctx, p.client, name)
}

// DeleteProjectBundle deletes the project's role groups and then the project
// itself. Missing groups are tolerated; ownership violations are not. The
// rolebindings live in the project namespace and are removed with it.
func (p *ProjectProvider) DeleteProjectBundle(ctx context.Context, name string) error {
	p.log.Infow("delete project bundle", "project", name)

	project, err := getProject(ctx, p.client, name)
	if err != nil {
		return err
	}

	for _, role := range roleNames {
		if err := deleteGroup(ctx, p.client, groupName(name, role)); err != nil {
			return err
		}
	}

	return p.client.Delete(ctx, project)
}
