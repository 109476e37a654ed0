package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/townhub-api/internal/domain"
)

// ObituaryRepo provides typed DynamoDB operations for the obituaries table.
type ObituaryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewObituaryRepo(client *dynamodb.Client, tableName string) *ObituaryRepo {
	return &ObituaryRepo{client: client, tableName: tableName}
}

func (r *ObituaryRepo) Put(ctx context.Context, o *domain.Obituary) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal obituary: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ObituaryRepo) Get(ctx context.Context, obituaryID string) (*domain.Obituary, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("obituary_id", obituaryID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("obituary %s: %w", obituaryID, domain.ErrNotFound)
	}
	var o domain.Obituary
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Scan returns every obituary row. The table for a single town stays small
// enough that the purge job can evaluate its predicate in process.
func (r *ObituaryRepo) Scan(ctx context.Context) ([]domain.Obituary, error) {
	var all []domain.Obituary
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Obituary
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return all, nil
}

func (r *ObituaryRepo) Delete(ctx context.Context, obituaryID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("obituary_id", obituaryID),
	})
	return err
}
