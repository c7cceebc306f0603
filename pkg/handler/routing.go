package handler

import (
	"context"

	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"go.uber.org/zap"

	"github.com/larsks/acct-manager/pkg/provider"
)

// AuthConfig carries the credentials required by the API. It is immutable
// for the process lifetime.
type AuthConfig struct {
	Username string
	Password string

	// Disabled turns off authentication entirely. Intended for tests and
	// local development only.
	Disabled bool
}

// Routing represents an object which binds endpoints to http handlers.
type Routing struct {
	log             *zap.SugaredLogger
	projectProvider provider.ProjectProvider
	userProvider    provider.UserProvider
	roleProvider    provider.RoleProvider
	quotaProvider   provider.QuotaProvider
	auth            AuthConfig
}

// NewRouting creates a new Routing.
func NewRouting(
	log *zap.SugaredLogger,
	projectProvider provider.ProjectProvider,
	userProvider provider.UserProvider,
	roleProvider provider.RoleProvider,
	quotaProvider provider.QuotaProvider,
	auth AuthConfig,
) Routing {
	return Routing{
		log:             log,
		projectProvider: projectProvider,
		userProvider:    userProvider,
		roleProvider:    roleProvider,
		quotaProvider:   quotaProvider,
		auth:            auth,
	}
}

func (r Routing) defaultServerOptions() []httptransport.ServerOption {
	return []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.ErrorHandlerFunc(func(ctx context.Context, err error) {
			r.log.Debugw("error handling request", zap.Error(err))
		})),
	}
}
