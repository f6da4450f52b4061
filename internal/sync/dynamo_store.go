package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/tsudoi/convosync/pkg/logging"
)

// conversationIndex is the GSI keyed on conversationId used for lookups.
const conversationIndex = "conversationId-index"

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// storedRecord is the persisted shape of one conversation record.
type storedRecord struct {
	RecordID string `dynamodbav:"recordId"`
	Properties
	Content    []Block `dynamodbav:"content"`
	Archived   bool    `dynamodbav:"archived"`
	CreatedAt  string  `dynamodbav:"createdAt"`
	UpdatedAt  string  `dynamodbav:"updatedAt"`
	ArchivedAt string  `dynamodbav:"archivedAt,omitempty"`
}

// DynamoStore implements RecordStore on a DynamoDB table with a
// conversationId GSI. Archive is a soft delete: archived records keep their
// item but stop matching Find.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

var _ RecordStore = (*DynamoStore)(nil)

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("sync: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("sync: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoStore{client: client, tableName: tableName, logger: logger}
}

// Find returns the record ref for a live record carrying the identifier, or
// an empty ref when none exists.
func (s *DynamoStore) Find(ctx context.Context, conversationID string) (string, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(conversationIndex),
		KeyConditionExpression: aws.String("#cid = :cid"),
		FilterExpression:       aws.String("attribute_not_exists(archived) OR archived = :f"),
		ExpressionAttributeNames: map[string]string{
			"#cid": "conversationId",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: conversationID},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sync: query records: %w", err)
	}
	if len(out.Items) == 0 {
		return "", nil
	}

	var rec struct {
		RecordID string `dynamodbav:"recordId"`
	}
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return "", fmt.Errorf("sync: unmarshal record ref: %w", err)
	}
	return rec.RecordID, nil
}

// Create writes a new record and returns its ref.
func (s *DynamoStore) Create(ctx context.Context, props Properties, content []Block) (string, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	rec := storedRecord{
		RecordID:   uuid.NewString(),
		Properties: props,
		Content:    content,
		Archived:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return "", fmt.Errorf("sync: marshal record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return "", fmt.Errorf("sync: put record: %w", err)
	}

	s.logger.Debug("record created", "record_id", rec.RecordID, "conversation_id", props.ConversationID)
	return rec.RecordID, nil
}

// propertyAttrs lists the record attributes Update rewrites, in expression
// order.
var propertyAttrs = []string{
	"title", "translatedTitle", "date", "topic", "status",
	"summary", "rating", "messageCount", "conversationId", "sourceUrl",
}

// Update overwrites the record's properties, leaving content untouched.
func (s *DynamoStore) Update(ctx context.Context, ref string, props Properties) error {
	avProps, err := attributevalue.MarshalMap(props)
	if err != nil {
		return fmt.Errorf("sync: marshal properties: %w", err)
	}

	names := make(map[string]string, len(propertyAttrs)+1)
	values := make(map[string]types.AttributeValue, len(propertyAttrs)+1)
	expr := "SET "
	for i, attr := range propertyAttrs {
		if i > 0 {
			expr += ", "
		}
		name := "#p" + attr
		value := ":p" + attr
		expr += name + " = " + value
		names[name] = attr
		av, ok := avProps[attr]
		if !ok {
			av = &types.AttributeValueMemberNULL{Value: true}
		}
		values[value] = av
	}
	expr += ", #updatedAt = :updatedAt"
	names["#updatedAt"] = "updatedAt"
	values[":updatedAt"] = &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)}

	if _, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       recordKey(ref),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}); err != nil {
		return fmt.Errorf("sync: update record: %w", err)
	}
	return nil
}

// ReplaceContent clears and rebuilds the record's content body.
func (s *DynamoStore) ReplaceContent(ctx context.Context, ref string, content []Block) error {
	avContent, err := attributevalue.Marshal(content)
	if err != nil {
		return fmt.Errorf("sync: marshal content: %w", err)
	}

	if _, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              recordKey(ref),
		UpdateExpression: aws.String("SET #content = :content, #updatedAt = :updatedAt"),
		ExpressionAttributeNames: map[string]string{
			"#content":   "content",
			"#updatedAt": "updatedAt",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":content":   avContent,
			":updatedAt": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	}); err != nil {
		return fmt.Errorf("sync: replace content: %w", err)
	}
	return nil
}

// Archive soft-deletes a record.
func (s *DynamoStore) Archive(ctx context.Context, ref string) error {
	if _, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              recordKey(ref),
		UpdateExpression: aws.String("SET #archived = :t, #archivedAt = :now"),
		ExpressionAttributeNames: map[string]string{
			"#archived":   "archived",
			"#archivedAt": "archivedAt",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":   &types.AttributeValueMemberBOOL{Value: true},
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	}); err != nil {
		return fmt.Errorf("sync: archive record: %w", err)
	}
	return nil
}

func recordKey(ref string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"recordId": &types.AttributeValueMemberS{Value: ref},
	}
}
