// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBedrockAPI implements BedrockAPI for testing.
type mockBedrockAPI struct {
	input  *bedrockruntime.ConverseInput
	output *bedrockruntime.ConverseOutput
	err    error
}

func (m *mockBedrockAPI) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func TestBedrockBackend_Send(t *testing.T) {
	api := &mockBedrockAPI{
		output: &bedrockruntime.ConverseOutput{
			Output: &brtypes.ConverseOutputMemberMessage{
				Value: brtypes.Message{
					Role: brtypes.ConversationRoleAssistant,
					Content: []brtypes.ContentBlock{
						&brtypes.ContentBlockMemberText{Value: "Here is "},
						&brtypes.ContentBlockMemberText{Value: "the code"},
					},
				},
			},
			Usage: &brtypes.TokenUsage{
				InputTokens:  aws.Int32(50),
				OutputTokens: aws.Int32(42),
				TotalTokens:  aws.Int32(92),
			},
		},
	}
	b := NewBedrockBackendWithAPI(api, BedrockConfig{Region: "us-east-1"})

	reply, err := b.Send(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Here is the code", reply.Text)
	assert.Equal(t, 42, reply.OutputTokens)

	require.NotNil(t, api.input)
	assert.Equal(t, "grok-test", aws.ToString(api.input.ModelId))
	assert.Equal(t, int32(4000), aws.ToInt32(api.input.InferenceConfig.MaxTokens))
	assert.InDelta(t, 0.2, aws.ToFloat32(api.input.InferenceConfig.Temperature), 1e-6)

	require.Len(t, api.input.System, 1)
	sys, ok := api.input.System[0].(*brtypes.SystemContentBlockMemberText)
	require.True(t, ok)
	assert.Equal(t, "sys", sys.Value)

	// Consecutive user turns fold into one message, order preserved.
	require.Len(t, api.input.Messages, 1)
	msg := api.input.Messages[0]
	assert.Equal(t, brtypes.ConversationRoleUser, msg.Role)
	require.Len(t, msg.Content, 2)
	assert.Equal(t, "ctx", msg.Content[0].(*brtypes.ContentBlockMemberText).Value)
	assert.Equal(t, "prompt", msg.Content[1].(*brtypes.ContentBlockMemberText).Value)
}

func TestBedrockBackend_MissingUsage(t *testing.T) {
	api := &mockBedrockAPI{output: &bedrockruntime.ConverseOutput{}}
	b := NewBedrockBackendWithAPI(api, BedrockConfig{})

	reply, err := b.Send(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Empty(t, reply.Text)
	assert.Equal(t, 0, reply.OutputTokens)
}

func TestBedrockBackend_ClassifiesErrors(t *testing.T) {
	t.Run("access denied", func(t *testing.T) {
		api := &mockBedrockAPI{err: &brtypes.AccessDeniedException{Message: aws.String("denied")}}
		b := NewBedrockBackendWithAPI(api, BedrockConfig{})

		_, err := b.Send(context.Background(), testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credential or permission issue")
	})

	t.Run("model not found", func(t *testing.T) {
		api := &mockBedrockAPI{err: &brtypes.ResourceNotFoundException{Message: aws.String("nope")}}
		b := NewBedrockBackendWithAPI(api, BedrockConfig{})

		_, err := b.Send(context.Background(), testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model not found: grok-test")
	})
}

func TestNewBedrockBackend_RequiresRegion(t *testing.T) {
	_, err := NewBedrockBackend(context.Background(), BedrockConfig{})
	assert.ErrorIs(t, err, ErrLLMFailure)
}
