package cloud

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// ToolEvent is the payload the tool Lambda accepts.
type ToolEvent struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolResponse mirrors the HTTP envelope: Result on success, Error otherwise.
type ToolResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type LambdaInvoker interface {
	Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaClient runs tools remotely through the tool Lambda.
type LambdaClient struct {
	svc      LambdaInvoker
	function string
}

func NewLambdaClient(ctx context.Context, region, function string) (*LambdaClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewLambdaClientWith(lambda.NewFromConfig(cfg), function), nil
}

func NewLambdaClientWith(svc LambdaInvoker, function string) *LambdaClient {
	return &LambdaClient{svc: svc, function: function}
}

// InvokeTool calls the function synchronously. A function-level error (an
// unhandled panic or timeout in the Lambda) is returned as an error; a tool
// failure comes back as a ToolResponse with Success false.
func (c *LambdaClient) InvokeTool(ctx context.Context, ev ToolEvent) (*ToolResponse, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	out, err := c.svc.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(c.function),
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Lambda: %w", err)
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("lambda function error: %s: %s", aws.ToString(out.FunctionError), out.Payload)
	}

	var resp ToolResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &resp, nil
}
