// Package hardware bridges zones to their heating controllers over MQTT.
//
// Targets are published retained on <prefix>/zones/<pin>/target. Controllers report measured
// temperatures on <prefix>/zones/<pin>/temperature, either as a bare number or as
// {"temp_c": 19.5}.
package hardware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"zone_heating/internal/config"
	"zone_heating/internal/logger"
	"zone_heating/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	handleTimeout  = 5 * time.Second
	quiesceMillis  = 250
)

var errBadTopic = errors.New("unexpected topic")

// Client is the part of mqtt.Client the bridge uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Disconnect(quiesce uint)
}

// Sink receives measured temperatures.
type Sink interface {
	RecordMeasurement(ctx context.Context, pin int, tempC float64) error
}

type Bridge struct {
	client Client
	prefix string
	log    *logger.Logger

	mu   sync.RWMutex
	sink Sink
}

// TargetMessage is the payload published for a zone's target.
type TargetMessage struct {
	ZoneID      int           `json:"zone_id"`
	Zone        string        `json:"zone"`
	TargetTempC float64       `json:"target_temp_c"`
	Source      models.Source `json:"source"`
	At          time.Time     `json:"at"`
}

func NewBridge(client Client, prefix string, log *logger.Logger) *Bridge {
	return &Bridge{client: client, prefix: strings.TrimSuffix(prefix, "/"), log: log}
}

// Connect dials the broker. Once Listen was called, measurement topics are resubscribed on
// every reconnect.
func Connect(cfg config.MQTTConfig, log *logger.Logger) (*Bridge, error) {
	b := &Bridge{prefix: strings.TrimSuffix(cfg.TopicPrefix, "/"), log: log}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetCleanSession(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warnw("mqtt connection lost", "err", err)
	}
	opts.OnConnect = func(c mqtt.Client) {
		log.Infow("mqtt connected", "broker", cfg.Broker)
		if err := b.subscribe(c); err != nil {
			log.Errorw("mqtt subscribe failed", "err", err)
		}
	}

	client := mqtt.NewClient(opts)
	b.client = client
	tk := client.Connect()
	if !tk.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timeout", cfg.Broker)
	}
	if err := tk.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}
	return b, nil
}

func (b *Bridge) targetTopic(pin int) string {
	return fmt.Sprintf("%s/zones/%d/target", b.prefix, pin)
}

func (b *Bridge) measurementFilter() string {
	return b.prefix + "/zones/+/temperature"
}

// Listen subscribes to measurement topics and forwards readings to sink.
func (b *Bridge) Listen(sink Sink) error {
	b.mu.Lock()
	b.sink = sink
	b.mu.Unlock()
	return b.subscribe(b.client)
}

func (b *Bridge) currentSink() Sink {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sink
}

func (b *Bridge) subscribe(c Client) error {
	if b.currentSink() == nil {
		return nil
	}
	topic := b.measurementFilter()
	tk := c.Subscribe(topic, qos, b.handleMessage)
	if !tk.WaitTimeout(connectTimeout) {
		return fmt.Errorf("subscribe %s: timeout", topic)
	}
	if err := tk.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

// PublishTarget sends the zone's target to its controller. Zones without a pin are skipped.
func (b *Bridge) PublishTarget(ctx context.Context, zone models.Zone, targetC float64, source models.Source) error {
	if zone.Pin == nil {
		return nil
	}
	payload, err := json.Marshal(TargetMessage{
		ZoneID:      zone.ID,
		Zone:        zone.Name,
		TargetTempC: targetC,
		Source:      source,
		At:          time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal target for zone %d: %w", zone.ID, err)
	}

	topic := b.targetTopic(*zone.Pin)
	tk := b.client.Publish(topic, qos, true, payload)
	select {
	case <-tk.Done():
		if err := tk.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish %s: %w", topic, ctx.Err())
	}
}

func (b *Bridge) handleMessage(_ mqtt.Client, m mqtt.Message) {
	pin, err := b.parsePin(m.Topic())
	if err != nil {
		b.log.Warnw("ignoring mqtt message", "topic", m.Topic(), "err", err)
		return
	}
	tempC, err := parseTemperature(m.Payload())
	if err != nil {
		b.log.Warnw("ignoring measurement", "topic", m.Topic(), "payload", string(m.Payload()), "err", err)
		return
	}

	sink := b.currentSink()
	if sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	if err := sink.RecordMeasurement(ctx, pin, tempC); err != nil {
		b.log.Errorw("record measurement failed", "pin", pin, "temp_c", tempC, "err", err)
	}
}

// parsePin extracts the pin from <prefix>/zones/<pin>/temperature.
func (b *Bridge) parsePin(topic string) (int, error) {
	rest, ok := strings.CutPrefix(topic, b.prefix+"/zones/")
	if !ok {
		return 0, errBadTopic
	}
	pinStr, suffix, ok := strings.Cut(rest, "/")
	if !ok || suffix != "temperature" {
		return 0, errBadTopic
	}
	pin, err := strconv.Atoi(pinStr)
	if err != nil {
		return 0, fmt.Errorf("%w: pin %q", errBadTopic, pinStr)
	}
	return pin, nil
}

func parseTemperature(payload []byte) (float64, error) {
	s := strings.TrimSpace(string(payload))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var msg struct {
			TempC *float64 `json:"temp_c"`
		}
		if jerr := json.Unmarshal([]byte(s), &msg); jerr != nil || msg.TempC == nil {
			return 0, fmt.Errorf("unreadable temperature %q", s)
		}
		v = *msg.TempC
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("temperature %q is not finite", s)
	}
	return v, nil
}

func (b *Bridge) Close() {
	if b.client != nil {
		b.client.Disconnect(quiesceMillis)
	}
}
