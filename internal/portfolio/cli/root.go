// Package cli implements portfolioctl, the owner's command line for minting
// admin tokens and driving the token management API.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subham12r/portfolio/pkg/portfoliosdk"
)

// EnvPrefix namespaces environment overrides, e.g. PORTFOLIOCTL_SERVER.
const EnvPrefix = "PORTFOLIOCTL"

const (
	defaultServer  = "http://localhost:8080"
	defaultTimeout = 10 * time.Second
)

type options struct {
	v *viper.Viper
}

// NewRootCommand builds a fresh command tree. Each tree has its own viper
// instance so tests can build as many as they like.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Owner tooling for the portfolio backend",
		Long:          "Mint admin tokens and manage integration OAuth state on a running portfolio backend.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("server", defaultServer, "portfolio backend base URL")
	root.PersistentFlags().String("token", "", "admin bearer token for owner endpoints")
	root.PersistentFlags().Duration("timeout", defaultTimeout, "HTTP timeout per request")

	// Bind flags to viper
	for _, name := range []string{"server", "token", "timeout"} {
		_ = opts.v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	// Read in environment variables with our prefix
	opts.v.SetEnvPrefix(EnvPrefix)
	opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	opts.v.AutomaticEnv()

	root.AddCommand(
		newTokenCommand(opts),
		newWakaTimeCommand(opts),
		newHealthCommand(opts),
	)

	return root
}

func (o *options) client() *portfoliosdk.Client {
	c := portfoliosdk.NewClient(o.v.GetString("server"), o.v.GetString("token"))
	if t := o.v.GetDuration("timeout"); t > 0 {
		c.HTTPClient.Timeout = t
	}
	return c
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
