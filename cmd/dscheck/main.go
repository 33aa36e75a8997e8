// Command dscheck dials the configured repository and prints the state of a
// single datastream as JSON. It is a connectivity and configuration smoke
// check, not a management tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fedstream/internal/blob"
	"fedstream/internal/config"
	"fedstream/internal/core"
	"fedstream/internal/infra/transport/httpapi"
	"fedstream/internal/journal"
	"fedstream/internal/observe"
	"fedstream/pkg/domain"
)

type report struct {
	PID        string         `json:"pid"`
	DSID       string         `json:"dsid"`
	New        bool           `json:"new"`
	Profile    domain.Profile `json:"profile,omitempty"`
	ContentURL string         `json:"content_url"`
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (env overrides apply)")
	pid := flag.String("pid", "", "object identifier")
	dsid := flag.String("dsid", "", "datastream identifier")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(context.Background(), log, *configPath, *pid, *dsid); err != nil {
		log.Error("dscheck failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, configPath, pid, dsid string) error {
	if pid == "" || dsid == "" {
		return fmt.Errorf("-pid and -dsid are required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	client, err := httpapi.New(httpapi.Config{
		BaseURL:  cfg.Repository.BaseURL,
		User:     cfg.Repository.User,
		Password: cfg.Repository.Password,
		Timeout:  cfg.Repository.Timeout.Std(),
		Logger:   log,
	})
	if err != nil {
		return err
	}
	instrumented := observe.InstrumentClient(client, observe.NewPromRecorder(nil))

	spool, err := blob.Open(ctx, blob.Settings{
		Driver: blob.Driver(cfg.Spool.Driver),
		FSRoot: cfg.Spool.FSRoot,
		S3: blob.S3Config{
			Region:          cfg.Spool.S3.Region,
			Bucket:          cfg.Spool.S3.Bucket,
			Endpoint:        cfg.Spool.S3.Endpoint,
			AccessKeyID:     cfg.Spool.S3.AccessKeyID,
			SecretAccessKey: cfg.Spool.S3.SecretAccessKey,
			SessionToken:    cfg.Spool.S3.SessionToken,
			PathStyle:       cfg.Spool.S3.PathStyle,
		},
	})
	if err != nil {
		return err
	}
	rec, err := journal.Open(ctx, journal.Settings{
		Driver: journal.Driver(cfg.Journal.Driver),
		Path:   cfg.Journal.Path,
		DSN:    cfg.Journal.DSN,
	})
	if err != nil {
		return err
	}
	if rec != nil {
		defer func() { _ = rec.Close() }()
	}

	repo := core.NewRepository(instrumented, core.WithSpool(spool), core.WithJournal(rec))
	obj := core.NewObject(pid, repo)
	ds, err := obj.Datastream(ctx, dsid, nil)
	if err != nil {
		return err
	}

	out := report{
		PID:        pid,
		DSID:       dsid,
		New:        ds.IsNew(ctx),
		Profile:    ds.Profile(ctx),
		ContentURL: ds.ContentURL(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
