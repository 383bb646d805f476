package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Scope is the only OAuth scope the assistant asks for.
const Scope = gdrive.DriveReadonlyScope

// ErrNoToken means an OAuth client file was given without a stored token.
var ErrNoToken = errors.New("drive: oauth client secrets need a token file")

// Credentials says where Drive credentials come from.
//
// CredentialsFile may hold a service account key, an authorized-user file,
// or OAuth client secrets. The latter also needs TokenFile, a JSON
// oauth2.Token saved by an earlier consent flow. With no file at all,
// Application Default Credentials are used.
type Credentials struct {
	CredentialsFile string
	TokenFile       string
}

// CredentialOption resolves creds into a client option for NewClient.
func CredentialOption(ctx context.Context, creds Credentials) (option.ClientOption, error) {
	if creds.CredentialsFile == "" {
		found, err := google.FindDefaultCredentials(ctx, Scope)
		if err != nil {
			return nil, fmt.Errorf("find default google credentials: %w", err)
		}
		return option.WithCredentials(found), nil
	}

	data, err := os.ReadFile(creds.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	// Service account and authorized-user files carry a "type" field;
	// OAuth client secrets ("installed" / "web") do not.
	if probe.Type != "" {
		found, err := google.CredentialsFromJSON(ctx, data, Scope)
		if err != nil {
			return nil, fmt.Errorf("load google credentials: %w", err)
		}
		return option.WithCredentials(found), nil
	}

	cfg, err := google.ConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("load oauth client secrets: %w", err)
	}
	tok, err := loadToken(creds.TokenFile)
	if err != nil {
		return nil, err
	}
	return option.WithTokenSource(cfg.TokenSource(ctx, tok)), nil
}

func loadToken(path string) (*oauth2.Token, error) {
	if path == "" {
		return nil, ErrNoToken
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read oauth token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	return &tok, nil
}
