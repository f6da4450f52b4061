package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// bedrockConverseAPI is the subset of the Bedrock client used for translation.
type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockProvider translates titles with a Claude model via Bedrock Converse.
type BedrockProvider struct {
	client  bedrockConverseAPI
	modelID string
}

// NewBedrockProvider builds the Bedrock-backed provider.
func NewBedrockProvider(client bedrockConverseAPI, modelID string) (*BedrockProvider, error) {
	if client == nil {
		return nil, errors.New("translate: bedrock client is required")
	}
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("translate: bedrock model id is required")
	}
	return &BedrockProvider{client: client, modelID: modelID}, nil
}

func (p *BedrockProvider) Name() string { return "bedrock" }

func (p *BedrockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(p.modelID),
		System: []brtypes.SystemContentBlock{
			&brtypes.SystemContentBlockMemberText{Value: translatorSystemPrompt},
		},
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(100),
			Temperature: aws.Float32(0.3),
		},
	}

	resp, err := p.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("translate: bedrock converse: %w", err)
	}

	return extractConverseText(resp), nil
}

func extractConverseText(resp *bedrockruntime.ConverseOutput) string {
	if resp == nil || resp.Output == nil {
		return ""
	}
	output, ok := resp.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok || len(output.Value.Content) == 0 {
		return ""
	}
	textBlock, ok := output.Value.Content[0].(*brtypes.ContentBlockMemberText)
	if !ok {
		return ""
	}
	return textBlock.Value
}
