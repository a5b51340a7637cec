package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct{ mock.Mock }

func (m *mockSNS) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

type mockLambda struct{ mock.Mock }

func (m *mockLambda) Invoke(ctx context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*lambda.InvokeOutput)
	return out, args.Error(1)
}

func TestSendAlert(t *testing.T) {
	svc := new(mockSNS)
	svc.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.TopicArn) == "arn:aws:sns:us-east-1:1:alerts" && aws.ToString(in.Subject) == "Solar alert"
	})).Return(&sns.PublishOutput{MessageId: aws.String("m-1")}, nil)

	c := NewSNSClientWith(svc, "arn:aws:sns:us-east-1:1:alerts", zerolog.Nop())
	id, err := c.SendAlert(context.Background(), "Solar alert", "body")

	require.NoError(t, err)
	assert.Equal(t, "m-1", id)
	svc.AssertExpectations(t)
}

func TestSendAlert_WrapsError(t *testing.T) {
	svc := new(mockSNS)
	boom := errors.New("throttled")
	svc.On("Publish", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := NewSNSClientWith(svc, "arn", zerolog.Nop()).SendAlert(context.Background(), "s", "m")
	assert.ErrorIs(t, err, boom)
}

func TestInvokeTool(t *testing.T) {
	svc := new(mockLambda)
	svc.On("Invoke", mock.Anything, mock.MatchedBy(func(in *lambda.InvokeInput) bool {
		var ev ToolEvent
		_ = json.Unmarshal(in.Payload, &ev)
		return aws.ToString(in.FunctionName) == "solar-analyst-tools" && ev.Tool == "health_check"
	})).Return(&lambda.InvokeOutput{Payload: []byte(`{"success":true,"result":{"type":"health_check"}}`)}, nil)

	resp, err := NewLambdaClientWith(svc, "solar-analyst-tools").InvokeTool(context.Background(), ToolEvent{Tool: "health_check"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"type":"health_check"}`, string(resp.Result))
}

func TestInvokeTool_FunctionError(t *testing.T) {
	svc := new(mockLambda)
	svc.On("Invoke", mock.Anything, mock.Anything).
		Return(&lambda.InvokeOutput{FunctionError: aws.String("Unhandled"), Payload: []byte(`{"errorMessage":"boom"}`)}, nil)

	_, err := NewLambdaClientWith(svc, "fn").InvokeTool(context.Background(), ToolEvent{Tool: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unhandled")
}
