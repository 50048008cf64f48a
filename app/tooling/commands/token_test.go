package commands_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jrazmi/tasktracker/app/tooling/commands"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/mid"
)

func TestToken(t *testing.T) {
	cfg := mid.AuthConfig{Secret: "dev", Issuer: "tasktracker", Audience: "tasktracker-api"}

	var out bytes.Buffer
	if err := commands.Token(&out, cfg, []string{"-owner", "owner-7", "-ttl", "5m"}); err != nil {
		t.Fatalf("token: %v", err)
	}

	sub, err := mid.NewAuthenticator(cfg).Subject(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	if sub != "owner-7" {
		t.Fatalf("subject = %q", sub)
	}
}

func TestTokenRequiresOwner(t *testing.T) {
	var out bytes.Buffer
	if err := commands.Token(&out, mid.AuthConfig{Secret: "dev"}, nil); err == nil {
		t.Fatal("expected error without owner")
	}

	if err := commands.Token(&out, mid.AuthConfig{Secret: "dev"}, []string{"-h"}); !errors.Is(err, commands.ErrHelp) {
		t.Fatalf("err = %v, want ErrHelp", err)
	}
}
