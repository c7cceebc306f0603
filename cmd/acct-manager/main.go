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

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/larsks/acct-manager/pkg/handler"
	"github.com/larsks/acct-manager/pkg/log"
	"github.com/larsks/acct-manager/pkg/provider/kubernetes"
	"github.com/larsks/acct-manager/pkg/quota"
)

func main() {
	options, err := newServerRunOptions()
	if err != nil {
		// no logger yet
		log.NewDefault().Sugar().Fatalw("invalid options", zap.Error(err))
	}

	rawLog := log.New(options.logDebug, options.logFormat)
	logger := rawLog.Sugar()
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	client, err := kubernetes.NewClient(options.kubeconfig)
	if err != nil {
		logger.Fatalw("failed to create kubernetes client", zap.Error(err))
	}

	routing := handler.NewRouting(
		logger,
		kubernetes.NewProjectProvider(client, logger),
		kubernetes.NewUserProvider(client, options.identityProvider, logger),
		kubernetes.NewRoleProvider(client, logger),
		kubernetes.NewQuotaProvider(client, quota.NewFileSource(options.quotaFile), logger),
		handler.AuthConfig{
			Username: options.adminUsername,
			Password: options.adminPassword,
			Disabled: options.authDisabled,
		},
	)
	if options.authDisabled {
		logger.Warn("authentication is disabled, all requests will be accepted")
	}

	router := mux.NewRouter()
	routing.RegisterV1(router)

	var g run.Group

	// This group is forever waiting in a goroutine for signals to stop
	{
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

		ctx, ctxDone := context.WithCancel(context.Background())
		g.Add(func() error {
			select {
			case <-signalCh:
				return errors.New("user requested to stop the application")
			case <-ctx.Done():
				return errors.New("parent context has been closed - propagating the request")
			}
		}, func(err error) {
			ctxDone()
		})
	}

	// This group serves the public API
	{
		server := &http.Server{
			Addr:              options.listenAddress,
			Handler:           ghandlers.CombinedLoggingHandler(os.Stdout, router),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Add(func() error {
			logger.Infow("the API server is running", "listenAddress", options.listenAddress)
			return server.ListenAndServe()
		}, func(err error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Errorw("failed to shutdown the API server gracefully", zap.Error(err))
			}
		})
	}

	// This group serves metrics and health probes on the internal address
	{
		health := healthcheck.NewHandler()
		health.AddReadinessCheck("apiserver", apiserverReadinessCheck(client))

		internal := http.NewServeMux()
		internal.Handle("/metrics", promhttp.Handler())
		internal.HandleFunc("/live", health.LiveEndpoint)
		internal.HandleFunc("/ready", health.ReadyEndpoint)

		server := &http.Server{
			Addr:              options.internalAddr,
			Handler:           internal,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Add(func() error {
			logger.Infow("the internal server is running", "internalAddress", options.internalAddr)
			return server.ListenAndServe()
		}, func(err error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Errorw("failed to shutdown the internal server gracefully", zap.Error(err))
			}
		})
	}

	if err := g.Run(); err != nil {
		logger.Fatalw("shutting down", zap.Error(err))
	}
}
