package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"foodcourt/internal/conf"
	"foodcourt/internal/constants"
	"foodcourt/internal/types"
)

// DataSender publishes payment and order events to NATS.
type DataSender struct {
	conn    *nats.Conn
	enabled bool
}

type natsConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// NewDataSender connects to NATS. Sandbox runs get a disabled sender that
// swallows publishes, the rest of the wiring stays identical.
func NewDataSender() (*DataSender, error) {
	if conf.GetIsSandbox() {
		log.Println("Sandbox mode, NATS data sender disabled")
		return &DataSender{enabled: false}, nil
	}

	config := loadNatsConfig()
	natsURL := fmt.Sprintf("nats://%s:%s@%s:%s",
		config.Username, config.Password, config.Host, config.Port)

	conn, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Printf("Connected to NATS server at %s:%s", config.Host, config.Port)
	return &DataSender{conn: conn, enabled: true}, nil
}

func loadNatsConfig() natsConfig {
	return natsConfig{
		Host:     getEnvOrDefault("NATS_HOST", "localhost"),
		Port:     getEnvOrDefault("NATS_PORT", "4222"),
		Username: getEnvOrDefault("NATS_USERNAME", ""),
		Password: getEnvOrDefault("NATS_PASSWORD", ""),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// SendPaymentResolved publishes a settled payment to the resolved subject.
func (ds *DataSender) SendPaymentResolved(update types.PaymentResolvedUpdate) error {
	return ds.publish(constants.NatsSubjectPaymentResolved, update)
}

// SendOrderPlaced publishes an accepted order to the order subject.
func (ds *DataSender) SendOrderPlaced(update types.OrderPlacedUpdate) error {
	return ds.publish(constants.NatsSubjectOrderPlaced, update)
}

func (ds *DataSender) publish(subject string, v any) error {
	if !ds.enabled {
		log.Printf("NATS data sender is disabled, skipping publish to '%s'", subject)
		return nil
	}
	if ds.conn == nil {
		return fmt.Errorf("NATS connection is not initialized")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	if err := ds.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish message to NATS: %w", err)
	}
	log.Printf("Sent update to NATS subject '%s': %s", subject, string(data))
	return nil
}

// Close closes the NATS connection.
func (ds *DataSender) Close() {
	if ds.conn != nil && ds.enabled {
		ds.conn.Close()
		log.Println("NATS connection closed")
	}
}

// IsConnected checks if the NATS connection is active.
func (ds *DataSender) IsConnected() bool {
	if !ds.enabled || ds.conn == nil {
		return false
	}
	return ds.conn.IsConnected()
}
