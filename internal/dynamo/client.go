// Package dynamo builds the DynamoDB client the user store talks to and
// provisions the users table.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/usersapi/users-api/internal/config"
)

// offlineRegion is the region every offline client signs for. DynamoDB Local
// keeps a separate database per region unless started with -sharedDb.
const offlineRegion = "localhost"

// NewClient creates a DynamoDB client from the configuration. Offline
// clients point at the local endpoint and sign with static credentials,
// which DynamoDB Local accepts regardless of value.
func NewClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	region := cfg.Region
	if cfg.Offline {
		region = offlineRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.MaxAttempts > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(cfg.MaxAttempts))
	}
	if cfg.Offline {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Offline {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
