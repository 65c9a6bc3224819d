package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAdminAdapter checks admin membership against the admins table.
// Membership is the existence of an item keyed by the identity subject id.
type DynamoAdminAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoAdminAdapter(client DynamoAPI, table string) *DynamoAdminAdapter {
	return &DynamoAdminAdapter{client: client, table: table}
}

func (d *DynamoAdminAdapter) IsAdmin(ctx context.Context, identityID string) (bool, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": identityID})
	if err != nil {
		return false, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: key})
	if err != nil {
		return false, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	return len(out.Item) > 0, nil
}
