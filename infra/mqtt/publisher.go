package mqtt

import (
	"context"
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/smartpark/core/events"
	coremon "github.com/kilianp07/smartpark/core/monitoring"
	"github.com/kilianp07/smartpark/infra/logger"
	"github.com/kilianp07/smartpark/internal/eventbus"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Message is the JSON document published for every served prediction.
type Message struct {
	Time                  string    `json:"time"`
	Weather               string    `json:"weather"`
	DayType               string    `json:"day_type"`
	PredictedAvailability int       `json:"predicted_availability"`
	RecommendedAction     string    `json:"recommended_action"`
	QValue                float64   `json:"q_value"`
	Confidence            float64   `json:"confidence"`
	ServedAt              time.Time `json:"served_at"`
}

// Publisher sends prediction messages to a single topic.
type Publisher struct {
	cli        pahoClient
	topic      string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPublisher connects to the broker described by cfg.
func NewPublisher(cfg Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) { log.Warnf("reconnecting to MQTT broker") }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	backoff := time.Duration(cfg.BackoffMS) * time.Millisecond
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	return &Publisher{
		cli:        c,
		topic:      topic,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    backoff,
		log:        log,
	}, nil
}

// Topic returns the topic messages are published on.
func (p *Publisher) Topic() string { return p.topic }

// PublishPrediction publishes ev, retrying with exponential backoff. The
// final failure is reported to the monitor.
func (p *Publisher) PublishPrediction(ev events.PredictionServed) error {
	payload, err := json.Marshal(Message{
		Time:                  ev.TimeOfDay,
		Weather:               ev.Weather.String(),
		DayType:               ev.DayType.String(),
		PredictedAvailability: ev.Result.PredictedAvailability,
		RecommendedAction:     ev.Result.RecommendedAction,
		QValue:                ev.Result.QValue,
		Confidence:            ev.Result.Confidence,
		ServedAt:              ev.At,
	})
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(p.topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published prediction for %s to %s", ev.TimeOfDay, p.topic)
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	coremon.CaptureException(publishErr, map[string]string{"module": "mqtt", "topic": p.topic})
	return publishErr
}

// Run publishes every PredictionServed event from bus until ctx is done or
// the bus is closed. The returned channel is closed when the loop exits.
func (p *Publisher) Run(ctx context.Context, bus eventbus.EventBus) <-chan struct{} {
	done := make(chan struct{})
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.PredictionServed); ok {
					_ = p.PublishPrediction(e)
				}
			}
		}
	}()
	return done
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
