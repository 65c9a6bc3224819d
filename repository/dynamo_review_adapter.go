package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"storefront/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoReviewAdapter is a DynamoDB-backed ReviewRepo.
type DynamoReviewAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoReviewAdapter(client DynamoAPI, table string) *DynamoReviewAdapter {
	return &DynamoReviewAdapter{client: client, table: table}
}

type reviewItem struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Rating    int    `dynamodbav:"rating"`
	Text      string `dynamodbav:"text"`
	Approved  bool   `dynamodbav:"approved"`
	CreatedAt string `dynamodbav:"createdAt"`
}

func (d *DynamoReviewAdapter) FindApproved(ctx context.Context, limit int) ([]*models.Review, error) {
	filter := "approved = :approved"
	approved, err := attributevalue.Marshal(true)
	if err != nil {
		return nil, fmt.Errorf("marshal filter value: %w", err)
	}
	input := &dynamodb.ScanInput{
		TableName:                 &d.table,
		FilterExpression:          &filter,
		ExpressionAttributeValues: map[string]types.AttributeValue{":approved": approved},
	}
	var reviews []*models.Review
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		for _, raw := range page.Items {
			var it reviewItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			r := &models.Review{Name: it.Name, Rating: it.Rating, Text: it.Text, Approved: it.Approved}
			r.ID, _ = uuid.Parse(it.ID)
			if t, err := time.Parse(time.RFC3339, it.CreatedAt); err == nil {
				r.CreatedAt = t
			}
			reviews = append(reviews, r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (d *DynamoReviewAdapter) Create(ctx context.Context, review *models.Review) error {
	it := reviewItem{
		ID:        review.ID.String(),
		Name:      review.Name,
		Rating:    review.Rating,
		Text:      review.Text,
		Approved:  review.Approved,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}
