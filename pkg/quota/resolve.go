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

package quota

import (
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/larsks/acct-manager/pkg/util/errors"
)

// Resolve applies the multiplier to every scaled value in the file and
// returns the ResourceQuota objects and the single LimitRange for the given
// project. The LimitRange is nil when the file declares no limits.
//
// Output is deterministic for a given file and multiplier: quota groups and
// limit types keep their declared order, and resource names within each map
// are resolved in sorted order.
func Resolve(project string, multiplier int, file *File) ([]corev1.ResourceQuota, *corev1.LimitRange, error) {
	if multiplier < 1 {
		return nil, nil, errors.NewValidation("multiplier must be a positive non-zero integer, got %d", multiplier)
	}

	if file == nil || file.Empty() {
		return nil, nil, errors.ErrNoQuotasConfigured
	}

	if err := file.Validate(); err != nil {
		return nil, nil, errors.NewValidation("invalid quota file: %v", err)
	}

	quotas := make([]corev1.ResourceQuota, 0, len(file.Quotas))
	for _, spec := range file.Quotas {
		hard, err := resolveValues(spec.Values, multiplier)
		if err != nil {
			return nil, nil, err
		}

		quotas = append(quotas, corev1.ResourceQuota{
			TypeMeta: metav1.TypeMeta{
				APIVersion: "v1",
				Kind:       "ResourceQuota",
			},
			ObjectMeta: metav1.ObjectMeta{
				Name:      quotaName(project, spec.Scopes),
				Namespace: project,
			},
			Spec: corev1.ResourceQuotaSpec{
				Hard:   hard,
				Scopes: quotaScopes(spec.Scopes),
			},
		})
	}

	limitRange, err := resolveLimits(project, multiplier, file.Limits)
	if err != nil {
		return nil, nil, err
	}

	return quotas, limitRange, nil
}

// quotaName derives a deterministic name from the project and the declared
// scope set: {project}-quota-{joined-scopes}, lowercased.
func quotaName(project string, scopes []Scope) string {
	names := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		names = append(names, string(scope))
	}

	name := fmt.Sprintf("%s-quota-%s", project, strings.Join(names, "-"))
	return strings.TrimSuffix(strings.ToLower(name), "-")
}

// quotaScopes maps the declared scopes onto ResourceQuota scopes. The
// sentinel Project scope means "no scope restriction" and is dropped.
func quotaScopes(scopes []Scope) []corev1.ResourceQuotaScope {
	var out []corev1.ResourceQuotaScope
	for _, scope := range scopes {
		if scope == ScopeProject {
			continue
		}
		out = append(out, corev1.ResourceQuotaScope(scope))
	}

	return out
}

func resolveLimits(project string, multiplier int, specs []LimitSpec) (*corev1.LimitRange, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	items := make([]corev1.LimitRangeItem, 0, len(specs))
	for _, spec := range specs {
		item := corev1.LimitRangeItem{Type: spec.Type}

		for _, category := range []struct {
			values map[string]ScaledValue
			target *corev1.ResourceList
		}{
			{spec.Max, &item.Max},
			{spec.Min, &item.Min},
			{spec.Default, &item.Default},
			{spec.DefaultRequest, &item.DefaultRequest},
			{spec.MaxLimitRequestRatio, &item.MaxLimitRequestRatio},
		} {
			list, err := resolveValues(category.values, multiplier)
			if err != nil {
				return nil, err
			}
			*category.target = list
		}

		items = append(items, item)
	}

	return &corev1.LimitRange{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "LimitRange",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      fmt.Sprintf("%s-limits", project),
			Namespace: project,
		},
		Spec: corev1.LimitRangeSpec{
			Limits: items,
		},
	}, nil
}

func resolveValues(values map[string]ScaledValue, multiplier int) (corev1.ResourceList, error) {
	if len(values) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	list := corev1.ResourceList{}
	for _, name := range names {
		resolved := values[name].Resolve(multiplier)
		quantity, err := resource.ParseQuantity(resolved)
		if err != nil {
			return nil, errors.NewValidation("resolved quota value %q for %q is not a valid quantity: %v", resolved, name, err)
		}
		list[corev1.ResourceName(name)] = quantity
	}

	return list, nil
}
