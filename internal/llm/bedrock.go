// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/petar-djukic/go-grok/pkg/types"
)

// BedrockConfig configures the AWS Bedrock backend.
type BedrockConfig struct {
	Region  string        // AWS region (required)
	Profile string        // AWS credential profile (optional, uses default chain if empty)
	Timeout time.Duration // Request timeout (default 180s)
}

// BedrockAPI abstracts the Bedrock Converse call for testing.
type BedrockAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockBackend sends completion requests through AWS Bedrock Converse.
type BedrockBackend struct {
	api     BedrockAPI
	timeout time.Duration
}

var _ Backend = (*BedrockBackend)(nil)

// NewBedrockBackend initializes the AWS SDK client using the standard
// credential chain.
func NewBedrockBackend(ctx context.Context, cfg BedrockConfig) (*BedrockBackend, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrLLMFailure)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrLLMFailure, err)
	}

	return NewBedrockBackendWithAPI(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

// NewBedrockBackendWithAPI creates a backend with a pre-configured API
// implementation. Used for testing with mock clients.
func NewBedrockBackendWithAPI(api BedrockAPI, cfg BedrockConfig) *BedrockBackend {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &BedrockBackend{api: api, timeout: timeout}
}

// Send converts the message sequence to Converse input and returns the
// concatenated text of the reply.
func (b *BedrockBackend) Send(ctx context.Context, req *types.CompletionRequest) (*types.CompletionReply, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	system, messages := toConverseMessages(req.Messages)

	out, err := b.api.Converse(callCtx, &bedrockruntime.ConverseInput{
		ModelId:  aws.String(req.Model),
		System:   system,
		Messages: messages,
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(req.MaxTokens)),
			Temperature: aws.Float32(float32(req.Temperature)),
		},
	})
	if err != nil {
		return nil, b.classifyError(req.Model, err)
	}

	reply := &types.CompletionReply{}
	if msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage); ok {
		for _, block := range msg.Value.Content {
			if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
				reply.Text += text.Value
			}
		}
	}
	if out.Usage != nil && out.Usage.OutputTokens != nil {
		reply.OutputTokens = int(*out.Usage.OutputTokens)
	}

	return reply, nil
}

// toConverseMessages splits system messages into system blocks and folds
// consecutive turns of the same role into one message, keeping block order.
func toConverseMessages(msgs []types.Message) ([]brtypes.SystemContentBlock, []brtypes.Message) {
	var system []brtypes.SystemContentBlock
	var messages []brtypes.Message

	for _, m := range msgs {
		if m.Role == types.RoleSystem {
			system = append(system, &brtypes.SystemContentBlockMemberText{Value: m.Content})
			continue
		}

		role := brtypes.ConversationRoleUser
		if m.Role == types.RoleAssistant {
			role = brtypes.ConversationRoleAssistant
		}

		block := &brtypes.ContentBlockMemberText{Value: m.Content}
		if n := len(messages); n > 0 && messages[n-1].Role == role {
			messages[n-1].Content = append(messages[n-1].Content, block)
			continue
		}
		messages = append(messages, brtypes.Message{
			Role:    role,
			Content: []brtypes.ContentBlock{block},
		})
	}

	return system, messages
}

// classifyError adds a short cause to Bedrock errors.
func (b *BedrockBackend) classifyError(model string, err error) error {
	var accessDenied *brtypes.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("credential or permission issue: %w", err)
	}

	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("model not found: %s: %w", model, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out after %s: %w", b.timeout, err)
	}

	return err
}
