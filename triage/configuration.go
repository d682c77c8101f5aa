// SPDX-License-Identifier: GPL-3.0-or-later
package triage

import (
	"fmt"
	"time"
)

const (
	DefaultQuery       = `in:inbox subject:(Relatório Diário OR "Relatorio Diario")`
	DefaultMaxResults  = 50
	DefaultConcurrency = 4
)

type ConfigFunc func(c *configuration) error

// DryRun classifies and logs without writing the ledger, replying, creating folders, moving or journaling.
func DryRun() ConfigFunc {
	return func(c *configuration) error {
		c.DryRun = true
		return nil
	}
}

func Templates(dir string) ConfigFunc {
	return func(c *configuration) error {
		if len(dir) == 0 {
			return fmt.Errorf("TemplateDir cannot be empty")
		}
		c.TemplateDir = dir
		return nil
	}
}

func ScratchDir(dir string) ConfigFunc {
	return func(c *configuration) error {
		if len(dir) == 0 {
			return fmt.Errorf("ScratchDir cannot be empty")
		}
		c.ScratchDir = dir
		return nil
	}
}

func LedgerDir(dir string) ConfigFunc {
	return func(c *configuration) error {
		if len(dir) == 0 {
			return fmt.Errorf("LedgerDir cannot be empty")
		}
		c.LedgerDir = dir
		return nil
	}
}

func Query(query string) ConfigFunc {
	return func(c *configuration) error {
		if len(query) == 0 {
			return fmt.Errorf("Query cannot be empty")
		}
		c.Query = query
		return nil
	}
}

func MaxResults(n int) ConfigFunc {
	return func(c *configuration) error {
		if n <= 0 {
			return fmt.Errorf("MaxResults must be positive, got %d", n)
		}
		c.MaxResults = n
		return nil
	}
}

// Concurrency limits how many PDFs of a message are read at the same time.
func Concurrency(n int) ConfigFunc {
	return func(c *configuration) error {
		if n <= 0 {
			return fmt.Errorf("Concurrency must be positive, got %d", n)
		}
		c.Concurrency = n
		return nil
	}
}

func Clock(now func() time.Time) ConfigFunc {
	return func(c *configuration) error {
		if now == nil {
			return fmt.Errorf("Clock cannot be nil")
		}
		c.Clock = now
		return nil
	}
}

func Merge(policy MergePolicy) ConfigFunc {
	return func(c *configuration) error {
		parsed, err := ParseMergePolicy(string(policy))
		if err != nil {
			return err
		}
		c.MergePolicy = parsed
		return nil
	}
}

type configuration struct {
	DryRun bool

	TemplateDir string
	ScratchDir  string
	LedgerDir   string

	Query       string
	MaxResults  int
	Concurrency int

	Clock       func() time.Time
	MergePolicy MergePolicy
}

func defaultConfiguration() *configuration {
	return &configuration{
		TemplateDir: ".",
		ScratchDir:  ".",
		LedgerDir:   ".",
		Query:       DefaultQuery,
		MaxResults:  DefaultMaxResults,
		Concurrency: DefaultConcurrency,
		Clock:       time.Now,
		MergePolicy: LastWins,
	}
}
