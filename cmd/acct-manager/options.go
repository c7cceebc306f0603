package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/larsks/acct-manager/pkg/log"
)

type serverRunOptions struct {
	listenAddress    string
	internalAddr     string
	kubeconfig       string
	identityProvider string
	quotaFile        string
	authDisabled     bool

	adminUsername string
	adminPassword string

	logDebug  bool
	logFormat log.Format
}

func newServerRunOptions() (serverRunOptions, error) {
	s := serverRunOptions{
		logFormat: log.FormatJSON,
	}

	pflag.StringVar(&s.listenAddress, "address", ":8080", "The address to listen on")
	pflag.StringVar(&s.internalAddr, "internal-address", "127.0.0.1:8085", "The address on which metrics and health probes are exposed")
	pflag.StringVar(&s.kubeconfig, "kubeconfig", "", "Path to the kubeconfig. Uses the in-cluster config when empty")
	pflag.StringVar(&s.identityProvider, "identity-provider", "", "Name of the identity provider used when creating identities (Required)")
	pflag.StringVar(&s.quotaFile, "quotas", "quotas.json", "The quota definition file path")
	pflag.BoolVar(&s.authDisabled, "disable-auth", false, "Disable request authentication")
	pflag.BoolVar(&s.logDebug, "log-debug", false, "Enable debug logging")
	pflag.Var(&s.logFormat, "log-format", "Log format, one of "+log.AvailableFormats.String())
	pflag.Parse()

	// Credentials only come from the environment so they never show up in
	// process listings.
	s.adminUsername = os.Getenv("ACCT_MGR_ADMIN_USERNAME")
	s.adminPassword = os.Getenv("ACCT_MGR_ADMIN_PASSWORD")

	if provider := os.Getenv("ACCT_MGR_IDENTITY_PROVIDER"); provider != "" && s.identityProvider == "" {
		s.identityProvider = provider
	}
	if quotaFile := os.Getenv("ACCT_MGR_QUOTA_FILE"); quotaFile != "" && !pflag.CommandLine.Changed("quotas") {
		s.quotaFile = quotaFile
	}
	if os.Getenv("ACCT_MGR_AUTH_DISABLED") == "true" {
		s.authDisabled = true
	}

	return s, s.validate()
}

func (s serverRunOptions) validate() error {
	if s.identityProvider == "" {
		return fmt.Errorf("the --identity-provider flag (or ACCT_MGR_IDENTITY_PROVIDER) is required")
	}
	if !s.authDisabled && (s.adminUsername == "" || s.adminPassword == "") {
		return fmt.Errorf("ACCT_MGR_ADMIN_USERNAME and ACCT_MGR_ADMIN_PASSWORD must be set unless authentication is disabled")
	}
	return nil
}
