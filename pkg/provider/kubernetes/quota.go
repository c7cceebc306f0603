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

	corev1 "k8s.io/api/core/v1"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"

	"go.uber.org/zap"

	"github.com/larsks/acct-manager/pkg/provider"
	"github.com/larsks/acct-manager/pkg/quota"
)

// NewQuotaProvider returns a quota provider reading its definitions from
// the given source.
func NewQuotaProvider(client ctrlruntimeclient.Client, source quota.Source, log *zap.SugaredLogger) *QuotaProvider {
	return &QuotaProvider{
		client: client,
		source: source,
		log:    log,
	}
}

var _ provider.QuotaProvider = &QuotaProvider{}

// QuotaProvider manages quota bundles.
type QuotaProvider struct {
	client ctrlruntimeclient.Client
	source quota.Source
	log    *zap.SugaredLogger
}

// NewQuotaBundle generates and creates the resource quotas and limit range
// for a project. The quota definition is re-read from its source on every
// call so that policy changes take effect without a restart.
func (p *QuotaProvider) NewQuotaBundle(ctx context.Context, project string, multiplier int) ([]corev1.ResourceQuota, *corev1.LimitRange, error) {
	p.log.Infow("create quota bundle", "project", project, "multiplier", multiplier)

	if _, err := getProject(ctx, p.client, project); err != nil {
		return nil, nil, err
	}

	file, err := p.source.Read()
	if err != nil {
		return nil, nil, err
	}

	quotas, limitRange, err := quota.Resolve(project, multiplier, file)
	if err != nil {
		return nil, nil, err
	}

	for i := range quotas {
		addOwnershipLabel(&quotas[i], project)
		p.log.Debugw("creating resourcequota", "project", project, "resourcequota", quotas[i].Name)
		if err := p.client.Create(ctx, &quotas[i]); err != nil {
			return nil, nil, err
		}
	}

	if limitRange != nil {
		addOwnershipLabel(limitRange, project)
		p.log.Debugw("creating limitrange", "project", project, "limitrange", limitRange.Name)
		if err := p.client.Create(ctx, limitRange); err != nil {
			return nil, nil, err
		}
	}

	return quotas, limitRange, nil
}

// UpdateQuotaBundle deletes the current bundle and creates a fresh one.
// Quotas are never patched in place: a policy change may add or remove whole
// quota groups, not just values.
func (p *QuotaProvider) UpdateQuotaBundle(ctx context.Context, project string, multiplier int) ([]corev1.ResourceQuota, *corev1.LimitRange, error) {
	if err := p.DeleteQuotaBundle(ctx, project); err != nil {
		return nil, nil, err
	}

	return p.NewQuotaBundle(ctx, project, multiplier)
}

// Get lists the managed resource quotas and limit ranges of a project.
// Foreign quotas in the same namespace are not included.
func (p *QuotaProvider) Get(ctx context.Context, project string) ([]corev1.ResourceQuota, []corev1.LimitRange, error) {
	if _, err := getProject(ctx, p.client, project); err != nil {
		return nil, nil, err
	}

	quotas := &corev1.ResourceQuotaList{}
	if err := p.client.List(ctx, quotas, ctrlruntimeclient.InNamespace(project), ownedBySelector()); err != nil {
		return nil, nil, err
	}

	limits := &corev1.LimitRangeList{}
	if err := p.client.List(ctx, limits, ctrlruntimeclient.InNamespace(project), ownedBySelector()); err != nil {
		return nil, nil, err
	}

	return quotas.Items, limits.Items, nil
}

// DeleteQuotaBundle deletes every managed resource quota and limit range in
// the project namespace. Foreign quotas are untouched.
func (p *QuotaProvider) DeleteQuotaBundle(ctx context.Context, project string) error {
	p.log.Infow("delete quota bundle", "project", project)

	quotas, limits, err := p.Get(ctx, project)
	if err != nil {
		return err
	}

	for i := range quotas {
		if err := p.client.Delete(ctx, &quotas[i]); err != nil {
			return err
		}
	}

	for i := range limits {
		if err := p.client.Delete(ctx, &limits[i]); err != nil {
			return err
		}
	}

	return nil
}
