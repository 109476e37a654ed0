package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/townhub-api/internal/domain"
)

// EventRepo provides typed DynamoDB operations for the events table.
type EventRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEventRepo(client *dynamodb.Client, tableName string) *EventRepo {
	return &EventRepo{client: client, tableName: tableName}
}

func (r *EventRepo) Put(ctx context.Context, e *domain.Event) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *EventRepo) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("event_id", eventID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	var e domain.Event
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByExternalID looks an event up by its stable origin-feed key.
func (r *EventRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Event, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("external_id-index"),
		KeyConditionExpression: aws.String("#a = :v"),
		ExpressionAttributeNames: map[string]string{"#a": "external_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: externalID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("event external_id %s: %w", externalID, domain.ErrNotFound)
	}
	var e domain.Event
	if err := attributevalue.UnmarshalMap(out.Items[0], &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByTitleDateTown is the composite fallback lookup used when a
// candidate carries no external id.
func (r *EventRepo) FindByTitleDateTown(ctx context.Context, title, date, townID string) (*domain.Event, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("date-index"),
		KeyConditionExpression: aws.String("#d = :d"),
		FilterExpression:       aws.String("title = :t AND town_id = :w"),
		ExpressionAttributeNames: map[string]string{"#d": "date"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberS{Value: date},
			":t": &types.AttributeValueMemberS{Value: title},
			":w": &types.AttributeValueMemberS{Value: townID},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("event %q on %s: %w", title, date, domain.ErrNotFound)
	}
	var e domain.Event
	if err := attributevalue.UnmarshalMap(out.Items[0], &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByDate returns all events on one civil date, ordered by display time.
func (r *EventRepo) ListByDate(ctx context.Context, date string) ([]domain.Event, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("date-index"),
		KeyConditionExpression: aws.String("#d = :d"),
		ExpressionAttributeNames: map[string]string{"#d": "date"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberS{Value: date},
		},
	})
	if err != nil {
		return nil, err
	}
	var events []domain.Event
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &events); err != nil {
		return nil, err
	}
	sortEventsByTime(events)
	return events, nil
}

// ListUpcoming returns events on or after the given civil date, soonest first.
func (r *EventRepo) ListUpcoming(ctx context.Context, fromDate string) ([]domain.Event, error) {
	return r.scanDates(ctx, "#d >= :d", fromDate)
}

// ListPast returns events strictly before the given civil date.
func (r *EventRepo) ListPast(ctx context.Context, beforeDate string) ([]domain.Event, error) {
	return r.scanDates(ctx, "#d < :d", beforeDate)
}

func (r *EventRepo) scanDates(ctx context.Context, filter, date string) ([]domain.Event, error) {
	var events []domain.Event
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          aws.String(filter),
			ExpressionAttributeNames:  map[string]string{"#d": "date"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":d": &types.AttributeValueMemberS{Value: date},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Event
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		events = append(events, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events, nil
}

func (r *EventRepo) Update(ctx context.Context, eventID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("event_id", eventID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *EventRepo) Delete(ctx context.Context, eventID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("event_id", eventID),
	})
	return err
}

// sortEventsByTime orders same-day events by their parsed 12-hour display
// time; sentinel times ("All Day", "TBD") sort first.
func sortEventsByTime(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return clockMinutes(events[i].Time) < clockMinutes(events[j].Time)
	})
}

func clockMinutes(display string) int {
	var h, m int
	var ap string
	if _, err := fmt.Sscanf(display, "%d:%d %s", &h, &m, &ap); err != nil {
		return -1
	}
	if h == 12 {
		h = 0
	}
	if ap == "PM" {
		h += 12
	}
	return h*60 + m
}
