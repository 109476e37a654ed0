package dynamo

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"title": "Council Meeting"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "title"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"location": "City Hall",
		"date":     "2026-03-01",
		"time":     "6:00 PM",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: date < location < time
	assert.Equal(t, "date", ue1.Names["#f0"])
	assert.Equal(t, "location", ue1.Names["#f1"])
	assert.Equal(t, "time", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"is_active": false})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.False(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

// pagedQueryClient serves canned query pages, chaining them through
// LastEvaluatedKey the way DynamoDB does once results pass 1 MB.
type pagedQueryClient struct {
	pages []*dynamodb.QueryOutput
	calls []map[string]types.AttributeValue
}

func (c *pagedQueryClient) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	c.calls = append(c.calls, in.ExclusiveStartKey)
	out := c.pages[0]
	c.pages = c.pages[1:]
	return out, nil
}

func TestQueryEventIndex_FollowsLastEvaluatedKey(t *testing.T) {
	item := func(userID string) map[string]types.AttributeValue {
		return pairKey("user_id", userID, "event_id", "evt-1")
	}
	cursor := pairKey("user_id", "u2", "event_id", "evt-1")
	client := &pagedQueryClient{pages: []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{item("u1"), item("u2")},
			LastEvaluatedKey: cursor,
		},
		{
			Items: []map[string]types.AttributeValue{item("u3")},
		},
	}}

	items, err := queryEventIndex(context.Background(), client, "interests", "evt-1")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	// Second request must resume from the first page's cursor.
	require.Len(t, client.calls, 2)
	assert.Nil(t, client.calls[0])
	assert.Equal(t, cursor, client.calls[1])
}

func TestPairKey(t *testing.T) {
	key := pairKey("user_id", "u1", "event_id", "e1")
	require.Len(t, key, 2)
	assert.Equal(t, "u1", key["user_id"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "e1", key["event_id"].(*types.AttributeValueMemberS).Value)
}
