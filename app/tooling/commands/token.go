package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/jrazmi/tasktracker/bridge/scaffolding/mid"
)

// Token prints a signed bearer token for a local owner id.
func Token(w io.Writer, cfg mid.AuthConfig, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(w)

	owner := fs.String("owner", "", "Owner id placed in the subject claim (required)")
	ttl := fs.Duration("ttl", time.Hour, "How long the token stays valid")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return fmt.Errorf("parse flags: %w", err)
	}
	if *owner == "" {
		fs.Usage()
		return errors.New("owner is required")
	}

	token, err := mid.NewAuthenticator(cfg).Issue(*owner, *ttl)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Fprintln(w, token)
	return nil
}
