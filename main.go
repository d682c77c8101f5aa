// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CrawX/go-report-triage/config"
	"github.com/CrawX/go-report-triage/domain"
	"github.com/CrawX/go-report-triage/events"
	"github.com/CrawX/go-report-triage/folders"
	"github.com/CrawX/go-report-triage/gmail"
	"github.com/CrawX/go-report-triage/imapconnection"
	"github.com/CrawX/go-report-triage/ledger"
	"github.com/CrawX/go-report-triage/log"
	"github.com/CrawX/go-report-triage/pdf"
	"github.com/CrawX/go-report-triage/persistence"
	"github.com/CrawX/go-report-triage/ses"
	"github.com/CrawX/go-report-triage/triage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log.InitLogging("info")
	logger := log.Logger(log.LOG_MAIN)

	var (
		configFile string
		dryRun     bool
		loglevel   string
	)

	rootCmd := &cobra.Command{
		Use:          "report-triage",
		Short:        "Classify daily report mails by their PDF attachments, reply and file them",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.ReadConfig(configFile)
			if err != nil {
				return fmt.Errorf("could not load config: %w", err)
			}

			if conf.Loglevel != nil {
				log.SetLogLevel(*conf.Loglevel)
			}
			if cmd.Flags().Changed("loglevel") {
				log.SetLogLevel(loglevel)
			}
			if cmd.Flags().Changed("dry-run") {
				conf.DryRun = dryRun
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, conf, logger)
		},
	}
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "config.toml", "path to the TOML config file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify and log only, overrides DryRun of the config file")
	rootCmd.Flags().StringVar(&loglevel, "loglevel", "info", "log level, overrides Loglevel of the config file")

	if err := rootCmd.Execute(); err != nil {
		logger.WithField("error", err).Fatal("Triage failed")
	}
}

func run(ctx context.Context, conf *config.Config, logger *logrus.Logger) error {
	p, err := persistence.NewPersistence(conf.Database)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer p.Close()

	var (
		store  domain.MailStore
		sender domain.ReplySender
	)
	switch conf.Backend {
	case config.BackendGmail:
		gmailStore, err := gmail.NewStore(ctx, conf.CredentialsFile, conf.TokenFile)
		if err != nil {
			return fmt.Errorf("could not start gmail connector: %w", err)
		}
		store = gmailStore
		sender = gmailStore
	case config.BackendImap:
		imapConn, err := imapconnection.NewImapConnection(conf.ImapHost, conf.User, conf.Password, conf.Compress)
		if err != nil {
			return fmt.Errorf("could not start imap connector: %w", err)
		}
		store = imapConn
	}
	defer store.Close()

	if conf.Sender == config.SenderSes {
		sesSender, err := ses.NewSender(ctx, ses.Config{
			Region:          conf.SesRegion,
			AccessKeyId:     conf.SesAccessKeyId,
			SecretAccessKey: conf.SesSecretAccessKey,
			From:            conf.SesFrom,
		})
		if err != nil {
			return fmt.Errorf("could not start ses sender: %w", err)
		}
		sender = sesSender
	}

	mergePolicy, err := triage.ParseMergePolicy(conf.MergePolicy)
	if err != nil {
		return err
	}

	configs := []triage.ConfigFunc{
		triage.Templates(conf.TemplateDir),
		triage.ScratchDir(conf.ScratchDir),
		triage.LedgerDir(conf.LedgerDir),
		triage.Merge(mergePolicy),
	}
	if len(conf.Query) > 0 {
		configs = append(configs, triage.Query(conf.Query))
	}
	if conf.MaxResults > 0 {
		configs = append(configs, triage.MaxResults(conf.MaxResults))
	}
	if conf.Concurrency > 0 {
		configs = append(configs, triage.Concurrency(conf.Concurrency))
	}
	if conf.DryRun {
		configs = append(configs, triage.DryRun())
	}

	collector := events.NewCollector()
	sink := events.Multi{events.NewLogSink(log.Logger(log.LOG_TRIAGE)), collector}

	t, err := triage.NewTriage(
		store,
		sender,
		pdf.NewReader(),
		ledger.NewXlsx(),
		p,
		folders.NewRouter(store, log.Logger(log.LOG_TRIAGE)),
		sink,
		configs...,
	)
	if err != nil {
		return fmt.Errorf("could not start triage: %w", err)
	}

	logger.WithFields(logrus.Fields{"backend": conf.Backend, "sender": conf.Sender, "dryrun": conf.DryRun, "merge": mergePolicy}).Info("Triaging report mails")
	if conf.DryRun {
		logger.Warn("Skipping ledger, replies and filing due to dry-run")
	}

	summary, err := t.Run(ctx)
	counts := collector.Snapshot()
	logger.WithFields(logrus.Fields{
		"found":               summary.Found,
		"processed":           summary.Processed,
		"valid":               summary.Valid,
		"rejected":            summary.Rejected,
		"failed":              summary.Failed,
		"skipped":             summary.Skipped,
		"attachments_skipped": counts.AttachmentsSkipped,
	}).Info("Triage summary")
	if err != nil {
		return err
	}

	return nil
}
