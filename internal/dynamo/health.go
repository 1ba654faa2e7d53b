package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableHealthChecker checks that the users table is reachable and active
type TableHealthChecker struct {
	client    TableAPI
	tableName string
}

// NewTableHealthChecker creates a DynamoDB health checker
func NewTableHealthChecker(client TableAPI, tableName string) *TableHealthChecker {
	return &TableHealthChecker{client: client, tableName: tableName}
}

func (t *TableHealthChecker) HealthCheck(ctx context.Context) error {
	out, err := t.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(t.tableName),
	})
	if err != nil {
		return err
	}
	if out.Table == nil || out.Table.TableStatus != types.TableStatusActive {
		var status types.TableStatus
		if out.Table != nil {
			status = out.Table.TableStatus
		}
		return fmt.Errorf("table %s is not active (status: %s)", t.tableName, status)
	}
	return nil
}

func (t *TableHealthChecker) IsCritical() bool {
	return true // the table is the only store
}

func (t *TableHealthChecker) Name() string {
	return "dynamodb"
}
