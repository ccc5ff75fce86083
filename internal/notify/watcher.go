package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/nats-io/nats.go"

	"foodcourt/internal/conf"
	"foodcourt/internal/constants"
	"foodcourt/internal/types"
)

// Watcher subscribes to the event subjects and fans updates out to the
// vendor's registered devices.
type Watcher struct {
	fcm     *FCMClient
	devices *DeviceRegistry

	mu        sync.Mutex
	conn      *nats.Conn
	subs      []*nats.Subscription
	isRunning bool
}

func NewWatcher(fcm *FCMClient, devices *DeviceRegistry) *Watcher {
	return &Watcher{fcm: fcm, devices: devices}
}

// Start connects and subscribes. Sandbox runs stay idle.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("watcher is already running")
	}
	if conf.GetIsSandbox() {
		log.Println("Sandbox mode, push watcher disabled")
		return nil
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
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	paymentSub, err := conn.Subscribe(constants.NatsSubjectPaymentResolved, w.handlePaymentResolved)
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribe %s: %w", constants.NatsSubjectPaymentResolved, err)
	}
	orderSub, err := conn.Subscribe(constants.NatsSubjectOrderPlaced, w.handleOrderPlaced)
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribe %s: %w", constants.NatsSubjectOrderPlaced, err)
	}

	w.conn = conn
	w.subs = []*nats.Subscription{paymentSub, orderSub}
	w.isRunning = true
	glog.Infof("push watcher subscribed to %s, %s",
		constants.NatsSubjectPaymentResolved, constants.NatsSubjectOrderPlaced)
	return nil
}

// Stop unsubscribes and closes the connection.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isRunning {
		return
	}
	for _, sub := range w.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("unsubscribe: %v", err)
		}
	}
	w.subs = nil
	w.conn.Close()
	w.conn = nil
	w.isRunning = false
	glog.Infof("push watcher stopped")
}

func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *Watcher) handlePaymentResolved(msg *nats.Msg) {
	var update types.PaymentResolvedUpdate
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", string(msg.Data), err.Error())
		return
	}
	if update.VendorID == "" {
		return
	}
	w.push(update.VendorID, PaymentPush(update))
}

func (w *Watcher) handleOrderPlaced(msg *nats.Msg) {
	var update types.OrderPlacedUpdate
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", string(msg.Data), err.Error())
		return
	}
	if update.VendorID == "" {
		return
	}
	w.push(update.VendorID, OrderPush(update))
}

// PaymentPush renders the notification for a settled payment.
func PaymentPush(update types.PaymentResolvedUpdate) types.PushMessage {
	message := types.PushMessage{
		Title: "Payment received",
		Body:  fmt.Sprintf("₹%s settled", update.Amount),
		Data: map[string]string{
			"type":           "payment_resolved",
			"transaction_id": update.TransactionID,
			"status":         update.Status,
		},
	}
	if update.Status != "success" {
		message.Title = "Payment failed"
		message.Body = fmt.Sprintf("Transaction %s did not go through", update.TransactionID)
	} else if update.OrderID != "" {
		message.Body = fmt.Sprintf("₹%s settled for order %s", update.Amount, update.OrderID)
		message.Data["order_id"] = update.OrderID
	}
	return message
}

// OrderPush renders the notification for a new order.
func OrderPush(update types.OrderPlacedUpdate) types.PushMessage {
	body := fmt.Sprintf("%d items, ₹%s", update.ItemCount, update.GrandTotal)
	if update.Table != "" {
		body = fmt.Sprintf("Table %s, %s", update.Table, body)
	}
	return types.PushMessage{
		Title: "New order",
		Body:  body,
		Data: map[string]string{
			"type":     "order_placed",
			"order_id": update.OrderID,
		},
	}
}

func (w *Watcher) push(vendorID string, message types.PushMessage) {
	devices := w.devices.Devices(vendorID)
	if len(devices) == 0 {
		glog.V(2).Infof("no devices registered for vendor %s", vendorID)
		return
	}
	for _, device := range devices {
		err := w.fcm.Send(device.Token, message)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrInvalidToken) {
			log.Printf("pruning dead device token for vendor %s", vendorID)
			if err := w.devices.Unregister(vendorID, device.Token); err != nil {
				log.Printf("prune device token: %v", err)
			}
			continue
		}
		glog.Warningf("push to vendor %s failed: %s", vendorID, err.Error())
	}
}
