package main

import (
	"context"
	"time"

	"github.com/heptiolabs/healthcheck"
	corev1 "k8s.io/api/core/v1"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// apiserverReadinessCheck reports whether the kubernetes apiserver is
// reachable. The service cannot do anything useful without it.
func apiserverReadinessCheck(client ctrlruntimeclient.Client) healthcheck.Check {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		namespaces := &corev1.NamespaceList{}
		return client.List(ctx, namespaces, ctrlruntimeclient.Limit(1))
	}
}
