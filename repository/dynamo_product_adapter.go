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

// DynamoProductAdapter is a DynamoDB-backed ProductRepo. Products live in a
// table keyed by `id` (string uuid).
type DynamoProductAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoProductAdapter(client DynamoAPI, table string) *DynamoProductAdapter {
	return &DynamoProductAdapter{client: client, table: table}
}

type productItem struct {
	ID          string   `dynamodbav:"id"`
	Title       string   `dynamodbav:"title"`
	Description string   `dynamodbav:"description,omitempty"`
	PriceCents  int64    `dynamodbav:"price_cents"`
	Inventory   int      `dynamodbav:"inventory"`
	Images      []string `dynamodbav:"images,omitempty"`
	IsActive    bool     `dynamodbav:"isActive"`
	CreatedAt   string   `dynamodbav:"createdAt"`
	UpdatedAt   string   `dynamodbav:"updatedAt"`
	DeletedAt   *string  `dynamodbav:"deletedAt,omitempty"`
}

func (it *productItem) toModel() *models.Product {
	p := &models.Product{}
	p.ID, _ = uuid.Parse(it.ID)
	p.Title = it.Title
	p.Description = it.Description
	p.PriceCents = it.PriceCents
	p.Inventory = it.Inventory
	p.Images = it.Images
	p.IsActive = it.IsActive
	if t, err := time.Parse(time.RFC3339, it.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, it.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	if it.DeletedAt != nil {
		if t, err := time.Parse(time.RFC3339, *it.DeletedAt); err == nil {
			p.DeletedAt = &t
		}
	}
	return p
}

func fromModel(p *models.Product) productItem {
	it := productItem{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Inventory:   p.Inventory,
		Images:      p.Images,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if p.DeletedAt != nil {
		s := p.DeletedAt.Format(time.RFC3339)
		it.DeletedAt = &s
	}
	return it
}

func (d *DynamoProductAdapter) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.NotFound("product", id.String())
	}
	var it productItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return it.toModel(), nil
}

func (d *DynamoProductAdapter) Create(ctx context.Context, product *models.Product) error {
	item, err := attributevalue.MarshalMap(fromModel(product))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoProductAdapter) FindActive(ctx context.Context, limit, skip int) ([]*models.Product, error) {
	filter := "isActive = :active"
	active, err := attributevalue.Marshal(true)
	if err != nil {
		return nil, fmt.Errorf("marshal filter value: %w", err)
	}
	products, err := d.scan(ctx, &filter, map[string]types.AttributeValue{":active": active})
	if err != nil {
		return nil, err
	}
	// Scan order is arbitrary; sort before paging.
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	if skip > 0 {
		if skip >= len(products) {
			return nil, nil
		}
		products = products[skip:]
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (d *DynamoProductAdapter) CountActive(ctx context.Context) (int64, error) {
	filter := "isActive = :active"
	active, err := attributevalue.Marshal(true)
	if err != nil {
		return 0, fmt.Errorf("marshal filter value: %w", err)
	}
	input := &dynamodb.ScanInput{
		TableName:                 &d.table,
		Select:                    types.SelectCount,
		FilterExpression:          &filter,
		ExpressionAttributeValues: map[string]types.AttributeValue{":active": active},
	}
	paginator := dynamodb.NewScanPaginator(d.client, input)
	var total int64
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("scan count failed: %w", err)
		}
		total += int64(page.Count)
	}
	return total, nil
}

func (d *DynamoProductAdapter) FindArchived(ctx context.Context) ([]*models.Product, error) {
	filter := "isActive = :active"
	inactive, err := attributevalue.Marshal(false)
	if err != nil {
		return nil, fmt.Errorf("marshal filter value: %w", err)
	}
	products, err := d.scan(ctx, &filter, map[string]types.AttributeValue{":active": inactive})
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		di, dj := products[i].DeletedAt, products[j].DeletedAt
		if di == nil || dj == nil {
			return dj == nil
		}
		return di.After(*dj)
	})
	return products, nil
}

func (d *DynamoProductAdapter) FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]*models.Product, error) {
	filter := "deletedAt <= :cutoff"
	cv, err := attributevalue.Marshal(cutoff.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("marshal cutoff: %w", err)
	}
	return d.scan(ctx, &filter, map[string]types.AttributeValue{":cutoff": cv})
}

// Update applies field-level changes with an existence condition so updating
// a purged record reports not-found instead of resurrecting it.
func (d *DynamoProductAdapter) Update(ctx context.Context, id uuid.UUID, set map[string]interface{}, remove []string) error {
	if len(set) == 0 && len(remove) == 0 {
		return nil
	}
	expr, names, values, err := buildUpdateExpression(set, remove)
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
			return apperrors.NotFound("product", id.String())
		}
		return fmt.Errorf("update item failed: %w", err)
	}
	return nil
}

func (d *DynamoProductAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id.String()})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	if _, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &d.table, Key: key}); err != nil {
		return fmt.Errorf("delete item failed: %w", err)
	}
	return nil
}

func (d *DynamoProductAdapter) scan(ctx context.Context, filter *string, values map[string]types.AttributeValue) ([]*models.Product, error) {
	input := &dynamodb.ScanInput{
		TableName:                 &d.table,
		FilterExpression:          filter,
		ExpressionAttributeValues: values,
	}
	var results []*models.Product
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		for _, raw := range page.Items {
			var it productItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			results = append(results, it.toModel())
		}
	}
	return results, nil
}

// buildUpdateExpression renders SET/REMOVE clauses with name placeholders so
// attributes that collide with DynamoDB reserved words stay usable.
func buildUpdateExpression(set map[string]interface{}, remove []string) (string, map[string]string, map[string]types.AttributeValue, error) {
	names := make(map[string]string)
	values := make(map[string]types.AttributeValue)
	expr := ""

	// Deterministic placeholder order keeps expressions stable for tests.
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		if i == 0 {
			expr = "SET "
		} else {
			expr += ", "
		}
		nph := fmt.Sprintf("#n%d", i)
		vph := fmt.Sprintf(":v%d", i)
		names[nph] = k
		av, err := attributevalue.Marshal(set[k])
		if err != nil {
			return "", nil, nil, fmt.Errorf("marshal update value for %s: %w", k, err)
		}
		values[vph] = av
		expr += fmt.Sprintf("%s = %s", nph, vph)
	}

	for i, k := range remove {
		if i == 0 {
			if expr != "" {
				expr += " "
			}
			expr += "REMOVE "
		} else {
			expr += ", "
		}
		nph := fmt.Sprintf("#r%d", i)
		names[nph] = k
		expr += nph
	}

	if len(values) == 0 {
		values = nil
	}
	return expr, names, values, nil
}
