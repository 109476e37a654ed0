package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/townhub-api/internal/domain"
)

// BusinessRepo provides typed DynamoDB operations for the businesses table.
type BusinessRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBusinessRepo(client *dynamodb.Client, tableName string) *BusinessRepo {
	return &BusinessRepo{client: client, tableName: tableName}
}

func (r *BusinessRepo) Put(ctx context.Context, b *domain.Business) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal business: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *BusinessRepo) Get(ctx context.Context, businessID string) (*domain.Business, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("business_id", businessID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("business %s: %w", businessID, domain.ErrNotFound)
	}
	var b domain.Business
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepo) Scan(ctx context.Context) ([]domain.Business, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var businesses []domain.Business
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &businesses); err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *BusinessRepo) Update(ctx context.Context, businessID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("business_id", businessID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *BusinessRepo) HardDelete(ctx context.Context, businessID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("business_id", businessID),
	})
	return err
}
