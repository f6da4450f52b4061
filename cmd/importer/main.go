package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/tsudoi/convosync/cmd/awsclients"
	appconfig "github.com/tsudoi/convosync/internal/config"
	"github.com/tsudoi/convosync/internal/conversations"
	"github.com/tsudoi/convosync/internal/observability/metrics"
	appsync "github.com/tsudoi/convosync/internal/sync"
	"github.com/tsudoi/convosync/internal/translate"
	"github.com/tsudoi/convosync/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		file       = flag.String("file", "", "path to the exported conversations JSON archive")
		mode       = flag.String("mode", "", "merge mode: update, create_only, or overwrite")
		batchSize  = flag.Int("batch-size", 0, "conversations per batch")
		dryRun     = flag.Bool("dry-run", false, "preview without touching the remote store")
		doTranslit = flag.Bool("translate", false, "translate titles via configured providers")
	)
	flag.Parse()

	if *file == "" {
		return errors.New("-file is required")
	}

	// .env is optional; real environments configure through the environment.
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if *mode == "" {
		*mode = cfg.ImportMode
	}
	mergeMode, err := appsync.ParseMode(*mode)
	if err != nil {
		return err
	}
	if *batchSize <= 0 {
		*batchSize = cfg.BatchSize
	}
	dry := *dryRun || cfg.DryRun

	ctx := context.Background()
	m := metrics.NewImportMetrics(nil)

	parser := conversations.NewParser(nil, logger)
	convs, err := parser.Parse(*file)
	if err != nil {
		return err
	}
	m.ObserveParsed(len(convs))
	logger.Info("archive parsed", "conversations", len(convs))

	if *doTranslit {
		svc, err := buildTranslator(ctx, cfg, logger, m)
		if err != nil {
			return err
		}
		svc.EnrichTitles(ctx, convs)
	}

	awsCfg, err := awsclients.Load(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}
	store := appsync.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.RecordsTable, logger)

	engine := appsync.NewEngine(store, logger).
		WithMode(mergeMode).
		WithBatchSize(*batchSize).
		WithDryRun(dry).
		WithSourceURLBase(cfg.SourceURLBase).
		WithPacer(appsync.NewSleepPacer(cfg.RecordDelay, cfg.BatchDelay)).
		WithMetrics(m)

	tally := engine.Run(ctx, convs)

	fmt.Printf("total: %d  created: %d  updated: %d  skipped: %d  errors: %d\n",
		tally.Total, tally.Created, tally.Updated, tally.Skipped, tally.Errors)

	if tally.Errors > 0 {
		return fmt.Errorf("%d conversations failed to sync", tally.Errors)
	}
	return nil
}

// buildTranslator wires whichever providers have credentials. The service
// itself rejects a configuration with no provider at all.
func buildTranslator(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.ImportMetrics) (*translate.Service, error) {
	var primary, secondary translate.Provider

	if cfg.BedrockModelID != "" {
		awsCfg, err := awsclients.Load(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load AWS config for bedrock: %w", err)
		}
		p, err := translate.NewBedrockProvider(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
		if err != nil {
			return nil, err
		}
		primary = p
		logger.Info("bedrock translation provider configured", "model", cfg.BedrockModelID)
	}

	if cfg.GeminiAPIKey != "" {
		p, err := translate.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, err
		}
		secondary = p
		logger.Info("gemini translation provider configured", "model", cfg.GeminiModelID)
	}

	svc, err := translate.NewService(primary, secondary, logger)
	if err != nil {
		return nil, err
	}
	return svc.
		WithPreferSecondary(cfg.PreferGemini).
		WithMaxRetries(cfg.MaxRetries).
		WithBatchDelay(cfg.TranslateDelay).
		WithMetrics(m), nil
}
