package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoInquiryAdapter is a DynamoDB-backed InquiryRepo.
type DynamoInquiryAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoInquiryAdapter(client DynamoAPI, table string) *DynamoInquiryAdapter {
	return &DynamoInquiryAdapter{client: client, table: table}
}

type inquiryItem struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name,omitempty"`
	Email     string `dynamodbav:"email"`
	Message   string `dynamodbav:"message"`
	CreatedAt string `dynamodbav:"createdAt"`
}

func (d *DynamoInquiryAdapter) Create(ctx context.Context, inquiry *models.Inquiry) error {
	it := inquiryItem{
		ID:        inquiry.ID.String(),
		Name:      inquiry.Name,
		Email:     inquiry.Email,
		Message:   inquiry.Message,
		CreatedAt: inquiry.CreatedAt.Format(time.RFC3339),
	}
	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("marshal inquiry: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}
