package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"storefront/apperrors"
	"storefront/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoOrderAdapter is a DynamoDB-backed OrderRepo.
type DynamoOrderAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoOrderAdapter(client DynamoAPI, table string) *DynamoOrderAdapter {
	return &DynamoOrderAdapter{client: client, table: table}
}

type orderItem struct {
	ID          string  `dynamodbav:"id"`
	ProductID   string  `dynamodbav:"productId"`
	Email       string  `dynamodbav:"email"`
	Status      string  `dynamodbav:"status"`
	CreatedAt   string  `dynamodbav:"createdAt"`
	ProcessedAt *string `dynamodbav:"processedAt,omitempty"`
}

func (it *orderItem) toModel() *models.Order {
	o := &models.Order{}
	o.ID, _ = uuid.Parse(it.ID)
	o.ProductID = it.ProductID
	o.Email = it.Email
	o.Status = it.Status
	if t, err := time.Parse(time.RFC3339, it.CreatedAt); err == nil {
		o.CreatedAt = t
	}
	if it.ProcessedAt != nil {
		if t, err := time.Parse(time.RFC3339, *it.ProcessedAt); err == nil {
			o.ProcessedAt = &t
		}
	}
	return o
}

func (d *DynamoOrderAdapter) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.NotFound("order", id.String())
	}
	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return it.toModel(), nil
}

func (d *DynamoOrderAdapter) FindAll(ctx context.Context) ([]*models.Order, error) {
	input := &dynamodb.ScanInput{TableName: &d.table}
	var orders []*models.Order
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		for _, raw := range page.Items {
			var it orderItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			orders = append(orders, it.toModel())
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (d *DynamoOrderAdapter) Create(ctx context.Context, order *models.Order) error {
	it := orderItem{
		ID:        order.ID.String(),
		ProductID: order.ProductID,
		Email:     order.Email,
		Status:    order.Status,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}
	if order.ProcessedAt != nil {
		s := order.ProcessedAt.Format(time.RFC3339)
		it.ProcessedAt = &s
	}
	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoOrderAdapter) Update(ctx context.Context, id uuid.UUID, set map[string]interface{}) error {
	if len(set) == 0 {
		return nil
	}
	expr, names, values, err := buildUpdateExpression(set, nil)
	if err != nil {
		return err
	}
	key, err := attributevalue.MarshalMap(map[string]string{"id": id.String()})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	cond := "attribute_exists(id)"
	_, err = d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &d.table,
		Key:                       key,
		UpdateExpression:          &expr,
		ConditionExpression:       &cond,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return apperrors.NotFound("order", id.String())
		}
		return fmt.Errorf("update item failed: %w", err)
	}
	return nil
}
