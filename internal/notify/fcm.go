package notify

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang/glog"

	"foodcourt/internal/types"
)

const fcmSendEndpoint = "https://fcm.googleapis.com/fcm/send"

// ErrInvalidToken marks tokens FCM reports as dead. Callers prune these from
// the registry.
var ErrInvalidToken = errors.New("device token is no longer valid")

// FCMClient talks to the legacy FCM HTTP API.
type FCMClient struct {
	HttpClient *resty.Client
	serverKey  string
	endpoint   string
}

// NewFCMClient reads the server key from FCM_SERVER_KEY. An empty key gives
// a disabled client, pushes become no-ops.
func NewFCMClient() *FCMClient {
	c := resty.New()
	c.SetTimeout(5 * time.Second)
	return &FCMClient{
		HttpClient: c,
		serverKey:  os.Getenv("FCM_SERVER_KEY"),
		endpoint:   fcmSendEndpoint,
	}
}

func (c *FCMClient) Enabled() bool {
	return c.serverKey != ""
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmMessage struct {
	To           string            `json:"to"`
	Priority     string            `json:"priority"`
	Notification *fcmNotification  `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmResult struct {
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type fcmResponse struct {
	Success int         `json:"success"`
	Failure int         `json:"failure"`
	Results []fcmResult `json:"results"`
}

// Send pushes one message to one device token.
func (c *FCMClient) Send(token string, message types.PushMessage) error {
	if !c.Enabled() {
		glog.V(2).Infof("FCM disabled, dropping push '%s'", message.Title)
		return nil
	}
	if token == "" {
		return fmt.Errorf("device token is empty")
	}

	body := &fcmMessage{
		To:       token,
		Priority: "high",
		Notification: &fcmNotification{
			Title: message.Title,
			Body:  message.Body,
		},
		Data: message.Data,
	}

	resp, err := c.HttpClient.R().
		SetHeader("Authorization", "key="+c.serverKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&fcmResponse{}).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("fcm send status %d: %s", resp.StatusCode(), resp.String())
	}

	result, ok := resp.Result().(*fcmResponse)
	if !ok || result == nil {
		return fmt.Errorf("fcm send: unparseable response %s", resp.String())
	}
	if result.Failure > 0 && len(result.Results) > 0 {
		switch result.Results[0].Error {
		case "NotRegistered", "InvalidRegistration", "MissingRegistration":
			return ErrInvalidToken
		default:
			return fmt.Errorf("fcm send failed: %s", result.Results[0].Error)
		}
	}
	return nil
}
