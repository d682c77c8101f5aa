// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	BackendGmail = "gmail"
	BackendImap  = "imap"

	SenderGmail = "gmail"
	SenderSes   = "ses"
)

type Config struct {
	Database string

	// Backend selects where reports are searched and filed, gmail or imap
	Backend string

	CredentialsFile string
	TokenFile       string

	ImapHost string
	User     string
	Password string
	Compress bool

	// Sender selects how replies go out. Defaults to gmail for the gmail backend and to ses for imap.
	Sender string

	SesRegion          string
	SesAccessKeyId     string
	SesSecretAccessKey string
	SesFrom            string

	LedgerDir   string
	ScratchDir  string
	TemplateDir string

	Query       string
	MaxResults  int
	Concurrency int
	MergePolicy string

	DryRun bool

	Loglevel *string
}

func ReadConfig(filename string) (*Config, error) {
	config := &Config{
		Database:        "triage.db",
		Backend:         BackendGmail,
		CredentialsFile: "credentials.json",
		TokenFile:       "token.json",
		LedgerDir:       ".",
		ScratchDir:      ".",
		TemplateDir:     ".",
		DryRun:          true,
	}

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	if len(strings.TrimSpace(config.Sender)) == 0 {
		config.Sender = SenderGmail
		if config.Backend == BackendImap {
			config.Sender = SenderSes
		}
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.Database, "Database name must not be empty, set to a filename for the sqlite database"); err != nil {
		return err
	}

	switch c.Backend {
	case BackendGmail:
		if err := validateNonEmptyStringField(c.CredentialsFile, "CredentialsFile must not be empty, set to the OAuth client credentials of the gmail account"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.TokenFile, "TokenFile must not be empty, set to the file holding the granted OAuth token"); err != nil {
			return err
		}
	case BackendImap:
		if err := validateNonEmptyStringField(c.ImapHost, "ImapHost must not be empty, set to host:port of the imap server"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.User, "User must not be empty, set to username on the imap server"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Password, "Password must not be empty, set to password of User on the imap server"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("Backend must be %s or %s, got %q", BackendGmail, BackendImap, c.Backend)
	}

	switch c.Sender {
	case SenderGmail:
		if c.Backend != BackendGmail {
			return fmt.Errorf("Sender gmail requires the gmail Backend")
		}
	case SenderSes:
		if err := validateNonEmptyStringField(c.SesRegion, "SesRegion must be set if Sender is ses"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.SesFrom, "SesFrom must be set if Sender is ses"); err != nil {
			return err
		}
		if (len(c.SesAccessKeyId) == 0) != (len(c.SesSecretAccessKey) == 0) {
			return fmt.Errorf("SesAccessKeyId and SesSecretAccessKey must be set together")
		}
	default:
		return fmt.Errorf("Sender must be %s or %s, got %q", SenderGmail, SenderSes, c.Sender)
	}

	if err := validateNonEmptyStringField(c.TemplateDir, "TemplateDir must not be empty, set to the directory holding the reply templates"); err != nil {
		return err
	}

	if c.MaxResults < 0 {
		return fmt.Errorf("MaxResults must not be negative")
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("Concurrency must not be negative")
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
