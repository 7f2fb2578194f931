package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestClient_Latency(t *testing.T) {
	api := &fakeCloudWatch{}
	c := newClient(api, "", true)
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return at }

	err := c.Latency(context.Background(), HTTPLatency, 1500*time.Millisecond, map[string]string{"Status": "2xx", "Method": "GET"})

	require.NoError(t, err)
	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "SushiApp", aws.ToString(in.Namespace))
	datum := in.MetricData[0]
	assert.Equal(t, HTTPLatency, aws.ToString(datum.MetricName))
	assert.Equal(t, 1500.0, aws.ToFloat64(datum.Value))
	assert.Equal(t, types.StandardUnitMilliseconds, datum.Unit)
	assert.Equal(t, at, aws.ToTime(datum.Timestamp))
	require.Len(t, datum.Dimensions, 2)
	assert.Equal(t, "Method", aws.ToString(datum.Dimensions[0].Name))
	assert.Equal(t, "Status", aws.ToString(datum.Dimensions[1].Name))
}

func TestClient_DisabledSendsNothing(t *testing.T) {
	c, err := New(context.Background(), Options{Enabled: false})
	require.NoError(t, err)

	assert.False(t, c.IsEnabled())
	assert.NoError(t, c.Count(context.Background(), HTTPRequests, nil))

	var nilClient *Client
	assert.False(t, nilClient.IsEnabled())
}

func TestClient_WrapsErrors(t *testing.T) {
	api := &fakeCloudWatch{err: errors.New("throttled")}
	c := newClient(api, "Test", true)

	err := c.Count(context.Background(), OrdersPlaced, nil)

	assert.ErrorContains(t, err, "OrdersPlaced")
	assert.ErrorContains(t, err, "throttled")
}
