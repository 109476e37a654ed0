package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/townhub-api/internal/domain"
)

// HousingRepo provides typed DynamoDB operations for the housing table.
type HousingRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewHousingRepo(client *dynamodb.Client, tableName string) *HousingRepo {
	return &HousingRepo{client: client, tableName: tableName}
}

func (r *HousingRepo) Put(ctx context.Context, l *domain.HousingListing) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *HousingRepo) Get(ctx context.Context, listingID string) (*domain.HousingListing, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("listing_id", listingID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("listing %s: %w", listingID, domain.ErrNotFound)
	}
	var l domain.HousingListing
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListActive returns all listings still marked active.
func (r *HousingRepo) ListActive(ctx context.Context) ([]domain.HousingListing, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("is_active = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}
	var listings []domain.HousingListing
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// ListActiveExpiredBefore returns active listings whose expiry has passed.
func (r *HousingRepo) ListActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]domain.HousingListing, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("is_active = :t AND expires_at < :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
			":c": &types.AttributeValueMemberS{Value: cutoff.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return nil, err
	}
	var listings []domain.HousingListing
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *HousingRepo) Update(ctx context.Context, listingID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("listing_id", listingID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// Deactivate soft-deletes a listing: the row survives with is_active=false
// and payment_status="expired".
func (r *HousingRepo) Deactivate(ctx context.Context, listingID string) error {
	return r.Update(ctx, listingID, map[string]interface{}{
		"is_active":      false,
		"payment_status": domain.PaymentStatusExpired,
	})
}
