package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/townhub-api/internal/domain"
)

// ReminderRepo provides typed DynamoDB operations for the sent-reminders
// table, keyed on (user_id, event_id). Rows are created once and never
// updated; a successful conditional put is the send-dedup guarantee.
type ReminderRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReminderRepo(client *dynamodb.Client, tableName string) *ReminderRepo {
	return &ReminderRepo{client: client, tableName: tableName}
}

// Create records that a reminder was sent. Returns domain.ErrConflict if a
// record for the pair already exists.
func (r *ReminderRepo) Create(ctx context.Context, rec *domain.ReminderRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal reminder record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("reminder already sent: %w", domain.ErrConflict)
	}
	return err
}

// Exists reports whether a reminder was already sent for the pair.
func (r *ReminderRepo) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       pairKey("user_id", userID, "event_id", eventID),
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

// DeleteByEvent removes every reminder record for one event (cascade
// cleanup when the parent event is purged).
func (r *ReminderRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	items, err := queryEventIndex(ctx, r.client, r.tableName, eventID)
	if err != nil {
		return err
	}
	var records []domain.ReminderRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return err
	}
	for _, rec := range records {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       pairKey("user_id", rec.UserID, "event_id", rec.EventID),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
