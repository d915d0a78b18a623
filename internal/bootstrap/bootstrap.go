// Package bootstrap builds the infrastructure shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/zugo-hr/attendance-backend-go/internal/config"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/email"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/storage"
	"github.com/zugo-hr/attendance-backend-go/internal/repository/roster"
)

// LogLevel parses LOG_LEVEL, defaulting to info.
func LogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger installs the default JSON logger.
func SetupLogger(cfg config.AppConfig) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: LogLevel(cfg.LogLevel),
	})).With(slog.String("env", cfg.Env))
	slog.SetDefault(logger)
}

// AWS loads the default AWS configuration when any component needs it.
func AWS(ctx context.Context, cfg *config.Config) (*aws.Config, error) {
	if !cfg.UsesAWS() {
		return nil, nil
	}

	var opts []func(*awsConfig.LoadOptions) error
	if cfg.AWS.Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.AWS.Region))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &awsCfg, nil
}

func requireAWS(awsCfg *aws.Config, component string) error {
	if awsCfg == nil {
		return fmt.Errorf("%s requires AWS configuration", component)
	}
	return nil
}

// Storage returns the configured file storage.
func Storage(cfg config.StorageConfig, awsCfg *aws.Config) (storage.FileStorage, error) {
	switch cfg.Provider {
	case "local":
		fs, err := storage.NewLocalStorage(cfg.BasePath, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return fs, nil
	case "s3":
		if err := requireAWS(awsCfg, "s3 storage"); err != nil {
			return nil, err
		}
		return storage.NewS3Storage(*awsCfg, cfg.Bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// Roster loads the roster from SSM when a parameter is configured, else from file.
func Roster(ctx context.Context, cfg config.RosterConfig, awsCfg *aws.Config) (*roster.Roster, error) {
	if cfg.SSMParameter != "" {
		if err := requireAWS(awsCfg, "ssm roster"); err != nil {
			return nil, err
		}
		return roster.LoadSSM(ctx, ssm.NewFromConfig(*awsCfg), cfg.SSMParameter)
	}
	return roster.LoadFile(cfg.Path)
}

// EmailSender returns the configured transport.
func EmailSender(cfg *config.Config, awsCfg *aws.Config) (email.Sender, error) {
	switch cfg.Email.Provider {
	case "smtp":
		return email.NewSMTPSender(cfg.SMTP), nil
	case "ses":
		if err := requireAWS(awsCfg, "ses email"); err != nil {
			return nil, err
		}
		return email.NewSESSender(*awsCfg), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Email.Provider)
	}
}
