package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/smartpark/core/events"
	coremon "github.com/kilianp07/smartpark/core/monitoring"
	"github.com/kilianp07/smartpark/core/model"
	"github.com/kilianp07/smartpark/internal/eventbus"
)

type stubToken struct{ err error }

func (t *stubToken) Wait() bool                     { return true }
func (t *stubToken) WaitTimeout(time.Duration) bool { return true }
func (t *stubToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (t *stubToken) Error() error                   { return t.err }

type mockClient struct {
	mock.Mock
	opts *paho.ClientOptions
}

func (m *mockClient) IsConnected() bool { return m.Called().Bool(0) }

func (m *mockClient) Connect() paho.Token { return m.Called().Get(0).(paho.Token) }

func (m *mockClient) Disconnect(quiesce uint) { m.Called(quiesce) }

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	return m.Called(topic, qos, retained, payload).Get(0).(paho.Token)
}

func useMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	prev := newMQTTClient
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = prev })
}

type recordMonitor struct {
	mu   sync.Mutex
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) CapturePanic(any)    {}
func (r *recordMonitor) Flush(time.Duration) {}

func served() events.PredictionServed {
	return events.PredictionServed{
		TimeOfDay: "08:15",
		Weather:   model.WeatherSunny,
		DayType:   model.Weekday,
		Result: model.PredictionResult{
			PredictedAvailability: 104,
			Confidence:            0.85,
			QValue:                0.095,
			RecommendedAction:     "Maintain Rate",
		},
		At: time.Date(2023, 1, 2, 8, 15, 0, 0, time.UTC),
	}
}

func TestPublishPrediction(t *testing.T) {
	mc := &mockClient{}
	mc.On("Connect").Return(&stubToken{})
	mc.On("Publish", "lots/display", byte(1), false, mock.Anything).Return(&stubToken{})
	useMockClient(t, mc)

	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "sp", Topic: "lots/display", QoS: 1})
	require.NoError(t, err)
	assert.Regexp(t, `^sp-[0-9a-f]{8}$`, mc.opts.ClientID)

	require.NoError(t, p.PublishPrediction(served()))
	mc.AssertNumberOfCalls(t, "Publish", 1)

	payload := mc.Calls[1].Arguments.Get(3).([]byte)
	var msg Message
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "08:15", msg.Time)
	assert.Equal(t, "Sunny", msg.Weather)
	assert.Equal(t, "Weekday", msg.DayType)
	assert.Equal(t, 104, msg.PredictedAvailability)
	assert.Equal(t, "Maintain Rate", msg.RecommendedAction)
}

func TestPublishPredictionRetriesAndReports(t *testing.T) {
	mc := &mockClient{}
	mc.On("Connect").Return(&stubToken{})
	mc.On("Publish", DefaultTopic, byte(0), false, mock.Anything).Return(&stubToken{err: errors.New("net fail")})
	useMockClient(t, mc)
	mon := &recordMonitor{}
	coremon.Init(mon)
	t.Cleanup(func() { coremon.Init(coremon.NopMonitor{}) })

	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1})
	require.NoError(t, err)
	err = p.PublishPrediction(served())
	assert.EqualError(t, err, "net fail")
	mc.AssertNumberOfCalls(t, "Publish", 3)

	mon.mu.Lock()
	defer mon.mu.Unlock()
	assert.Error(t, mon.err)
	assert.Equal(t, "mqtt", mon.tags["module"])
	assert.Equal(t, DefaultTopic, mon.tags["topic"])
}

func TestNewPublisherConnectError(t *testing.T) {
	mc := &mockClient{}
	mc.On("Connect").Return(&stubToken{err: errors.New("refused")})
	useMockClient(t, mc)

	_, err := NewPublisher(Config{Broker: "tcp://localhost:1883"})
	assert.EqualError(t, err, "refused")
}

func TestPublisherRunForwardsPredictions(t *testing.T) {
	mc := &mockClient{}
	mc.On("Connect").Return(&stubToken{})
	published := make(chan struct{}, 4)
	mc.On("Publish", DefaultTopic, byte(0), false, mock.Anything).
		Run(func(mock.Arguments) { published <- struct{}{} }).
		Return(&stubToken{})
	mc.On("IsConnected").Return(true)
	mc.On("Disconnect", uint(250)).Return()
	useMockClient(t, mc)

	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := p.Run(ctx, bus)

	bus.Publish(events.TrainingCompleted{RunID: "ignored"})
	bus.Publish(served())
	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("prediction not published")
	}

	cancel()
	<-done
	mc.AssertNumberOfCalls(t, "Publish", 1)
	p.Close()
	mc.AssertCalled(t, "Disconnect", uint(250))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.False(t, Config{}.Enabled())
	assert.Error(t, Config{Broker: "tcp://b:1883", QoS: 3}.Validate())
	assert.Error(t, Config{Broker: "tcp://b:1883", MaxRetries: -1}.Validate())
}
