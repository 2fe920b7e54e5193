package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/caarlos0/env/v11"

	"campaign-agent/handler"
	"campaign-agent/internal/integrations/googleads"
	"campaign-agent/internal/integrations/paramstore"
	"campaign-agent/internal/repository"
	"campaign-agent/internal/usecase"
)

type appConfig struct {
	StateTable  string `env:"STATE_TABLE,required"`
	ParamPrefix string `env:"PARAM_PREFIX,required"`
	AdsEndpoint string `env:"ADS_ENDPOINT"`
}

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse configuration", "err", err)
		os.Exit(1)
	}

	// ---- AWS SDK config ----
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	sessionStore, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.StateTable)
	if err != nil {
		slog.Error("failed to create session store", "err", err)
		os.Exit(1)
	}

	var adsOpts []googleads.Option
	if cfg.AdsEndpoint != "" {
		adsOpts = append(adsOpts, googleads.WithBaseURL(cfg.AdsEndpoint))
	}
	adsClient, err := googleads.NewClient(ssmClient, cfg.ParamPrefix, adsOpts...)
	if err != nil {
		slog.Error("failed to create Google Ads client", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	chatService, err := usecase.NewChatService(sessionStore, adsClient)
	if err != nil {
		slog.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(chatService)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
