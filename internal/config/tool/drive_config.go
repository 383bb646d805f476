package tool

import "github.com/deskpilot/deskpilot/internal/drive"

// DriveConfig configures the Google Drive tools.
type DriveConfig struct {
	// CredentialsFile is a service account key, an authorized-user file or
	// OAuth client secrets. Empty means Application Default Credentials.
	CredentialsFile string `json:"credentialsFile"`
	// TokenFile holds a saved OAuth token; only read with client secrets.
	TokenFile string `json:"tokenFile"`

	MaxDownloadBytes int64 `json:"maxDownloadBytes"`
	MaxChars         int   `json:"maxChars"`
	MaxResults       int   `json:"maxResults"`
}

func DefaultDriveConfig() DriveConfig {
	return DriveConfig{
		MaxDownloadBytes: 20 << 20,
		MaxChars:         100000,
		MaxResults:       100,
	}
}

// Credentials converts the file settings for drive.CredentialOption.
func (c DriveConfig) Credentials() drive.Credentials {
	return drive.Credentials{CredentialsFile: c.CredentialsFile, TokenFile: c.TokenFile}
}
