package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamo implements dynamoAPI and records the last inputs.
type mockDynamo struct {
	queryOut  *dynamodb.QueryOutput
	queryErr  error
	putErr    error
	updateErr error

	lastPut    *dynamodb.PutItemInput
	lastQuery  *dynamodb.QueryInput
	lastUpdate *dynamodb.UpdateItemInput
}

func (m *mockDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.lastPut = in
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.lastQuery = in
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.queryOut != nil {
		return m.queryOut, nil
	}
	return &dynamodb.QueryOutput{}, nil
}

func (m *mockDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	m.lastUpdate = in
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func sampleProps() Properties {
	return Properties{
		Title:           "Sample",
		TranslatedTitle: "サンプル",
		Date:            time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Topic:           "技術相談",
		Status:          "完了",
		Summary:         "summary",
		Rating:          "⭐⭐⭐",
		MessageCount:    2,
		ConversationID:  "conv-1",
		SourceURL:       "https://claude.ai/chat/conv-1",
	}
}

func TestNewDynamoStoreValidation(t *testing.T) {
	assert.Panics(t, func() { NewDynamoStore(nil, "table", nil) })
	assert.Panics(t, func() { NewDynamoStore(&mockDynamo{}, "", nil) })
}

func TestDynamoFind(t *testing.T) {
	item, err := attributevalue.MarshalMap(map[string]string{"recordId": "rec-1"})
	require.NoError(t, err)

	mock := &mockDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}}
	store := NewDynamoStore(mock, "records", nil)

	ref, err := store.Find(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", ref)

	require.NotNil(t, mock.lastQuery)
	assert.Equal(t, "records", *mock.lastQuery.TableName)
	assert.Equal(t, conversationIndex, *mock.lastQuery.IndexName)
	cid, ok := mock.lastQuery.ExpressionAttributeValues[":cid"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "conv-1", cid.Value)
}

func TestDynamoFindAbsent(t *testing.T) {
	store := NewDynamoStore(&mockDynamo{}, "records", nil)
	ref, err := store.Find(context.Background(), "conv-unknown")
	require.NoError(t, err)
	assert.Empty(t, ref)
}

func TestDynamoFindError(t *testing.T) {
	mock := &mockDynamo{queryErr: errors.New("throttled")}
	store := NewDynamoStore(mock, "records", nil)

	_, err := store.Find(context.Background(), "conv-1")
	assert.Error(t, err)
}

func TestDynamoCreate(t *testing.T) {
	mock := &mockDynamo{}
	store := NewDynamoStore(mock, "records", nil)

	ref, err := store.Create(context.Background(), sampleProps(), []Block{{Type: BlockHeading2, Text: "会話履歴"}})
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	require.NotNil(t, mock.lastPut)
	var rec storedRecord
	require.NoError(t, attributevalue.UnmarshalMap(mock.lastPut.Item, &rec))
	assert.Equal(t, ref, rec.RecordID)
	assert.Equal(t, "conv-1", rec.ConversationID)
	assert.False(t, rec.Archived)
	require.Len(t, rec.Content, 1)
	assert.Equal(t, "会話履歴", rec.Content[0].Text)
}

func TestDynamoUpdate(t *testing.T) {
	mock := &mockDynamo{}
	store := NewDynamoStore(mock, "records", nil)

	require.NoError(t, store.Update(context.Background(), "rec-1", sampleProps()))

	require.NotNil(t, mock.lastUpdate)
	key, ok := mock.lastUpdate.Key["recordId"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "rec-1", key.Value)
	assert.Contains(t, *mock.lastUpdate.UpdateExpression, "#ptitle = :ptitle")
	assert.Contains(t, *mock.lastUpdate.UpdateExpression, "#updatedAt = :updatedAt")
	assert.Equal(t, "title", mock.lastUpdate.ExpressionAttributeNames["#ptitle"])
}

func TestDynamoReplaceContent(t *testing.T) {
	mock := &mockDynamo{}
	store := NewDynamoStore(mock, "records", nil)

	blocks := []Block{{Type: BlockParagraph, Text: "body"}}
	require.NoError(t, store.ReplaceContent(context.Background(), "rec-1", blocks))

	require.NotNil(t, mock.lastUpdate)
	assert.Contains(t, *mock.lastUpdate.UpdateExpression, "#content = :content")
}

func TestDynamoArchive(t *testing.T) {
	mock := &mockDynamo{}
	store := NewDynamoStore(mock, "records", nil)

	require.NoError(t, store.Archive(context.Background(), "rec-1"))

	require.NotNil(t, mock.lastUpdate)
	flag, ok := mock.lastUpdate.ExpressionAttributeValues[":t"].(*types.AttributeValueMemberBOOL)
	require.True(t, ok)
	assert.True(t, flag.Value)
}

func TestDynamoErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	store := NewDynamoStore(&mockDynamo{putErr: boom, updateErr: boom}, "records", nil)

	_, err := store.Create(context.Background(), sampleProps(), nil)
	assert.Error(t, err)
	assert.Error(t, store.Update(context.Background(), "rec-1", sampleProps()))
	assert.Error(t, store.ReplaceContent(context.Background(), "rec-1", nil))
	assert.Error(t, store.Archive(context.Background(), "rec-1"))
}
