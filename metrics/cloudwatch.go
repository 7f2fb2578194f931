package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names
const (
	HTTPRequests = "HTTPRequests"
	HTTPErrors   = "HTTPErrors"
	HTTPLatency  = "HTTPLatency"
	HTTP4xx      = "HTTP4xxErrors"
	HTTP5xx      = "HTTP5xxErrors"

	OrdersPlaced = "OrdersPlaced"
	OrdersFailed = "OrdersFailed"
)

type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client publishes metrics to CloudWatch. A disabled client accepts every
// call and sends nothing.
type Client struct {
	api       putMetricDataAPI
	namespace string
	enabled   bool
	now       func() time.Time
}

type Options struct {
	Enabled   bool
	Namespace string
	// Endpoint overrides the CloudWatch endpoint, e.g. a LocalStack URL.
	Endpoint string
}

// New loads the default AWS config. When metrics are disabled no config is
// loaded and the returned client is a no-op.
func New(ctx context.Context, opts Options) (*Client, error) {
	if !opts.Enabled {
		return &Client{enabled: false, now: time.Now}, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	api := cloudwatch.NewFromConfig(cfg, func(o *cloudwatch.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return newClient(api, opts.Namespace, true), nil
}

func newClient(api putMetricDataAPI, namespace string, enabled bool) *Client {
	if namespace == "" {
		namespace = "SushiApp"
	}
	return &Client{api: api, namespace: namespace, enabled: enabled, now: time.Now}
}

func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled
}

// Put sends a single data point.
func (c *Client) Put(ctx context.Context, name string, value float64, unit types.StandardUnit, dimensions map[string]string) error {
	if !c.IsEnabled() {
		return nil
	}

	keys := make([]string, 0, len(dimensions))
	for k := range dimensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	dims := make([]types.Dimension, 0, len(keys))
	for _, k := range keys {
		dims = append(dims, types.Dimension{Name: aws.String(k), Value: aws.String(dimensions[k])})
	}

	_, err := c.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: aws.String(name),
			Value:      aws.Float64(value),
			Unit:       unit,
			Timestamp:  aws.Time(c.now()),
			Dimensions: dims,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to put metric %s: %w", name, err)
	}
	return nil
}

func (c *Client) Count(ctx context.Context, name string, dimensions map[string]string) error {
	return c.Put(ctx, name, 1, types.StandardUnitCount, dimensions)
}

// Latency records d in milliseconds.
func (c *Client) Latency(ctx context.Context, name string, d time.Duration, dimensions map[string]string) error {
	return c.Put(ctx, name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}
