package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/townhub-api/internal/domain"
)

// InterestRepo provides typed DynamoDB operations for the event-interest
// table, keyed on (user_id, event_id).
type InterestRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInterestRepo(client *dynamodb.Client, tableName string) *InterestRepo {
	return &InterestRepo{client: client, tableName: tableName}
}

func (r *InterestRepo) Put(ctx context.Context, in *domain.Interest) error {
	item, err := attributevalue.MarshalMap(in)
	if err != nil {
		return fmt.Errorf("marshal interest: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *InterestRepo) Delete(ctx context.Context, userID, eventID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       pairKey("user_id", userID, "event_id", eventID),
	})
	return err
}

// ListByEvent returns every interest row for one event via the event_id GSI,
// paging past the 1 MB query limit.
func (r *InterestRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.Interest, error) {
	items, err := queryEventIndex(ctx, r.client, r.tableName, eventID)
	if err != nil {
		return nil, err
	}
	var interests []domain.Interest
	if err := attributevalue.UnmarshalListOfMaps(items, &interests); err != nil {
		return nil, err
	}
	return interests, nil
}

// DeleteByEvent removes every interest row for one event (cascade cleanup
// when the parent event is purged).
func (r *InterestRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	interests, err := r.ListByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	for _, in := range interests {
		if err := r.Delete(ctx, in.UserID, in.EventID); err != nil {
			return err
		}
	}
	return nil
}
