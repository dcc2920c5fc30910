package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"shortlink-redirect/internal/config"
	"shortlink-redirect/internal/worker"
)

// VisitEvent webhook 请求体
type VisitEvent struct {
	ShortPath string    `json:"short_path"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	VisitedAt time.Time `json:"visited_at"`
}

// Notifier 访问通知，至多一次，不重试
type Notifier struct {
	url    string
	client *http.Client
	tasks  Submitter
	logger *zap.Logger
}

// NewNotifier url 为空时不发送
func NewNotifier(cfg config.WebhookConfig, tasks Submitter, logger *zap.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{
		url: cfg.URL,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: timeout,
		},
		tasks:  tasks,
		logger: logger,
	}
}

func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Notify 投递后立即返回
func (n *Notifier) Notify(event VisitEvent) {
	if !n.Enabled() {
		return
	}
	err := n.tasks.Submit(worker.Task{
		Name: "notify_webhook",
		Run: func(ctx context.Context) error {
			return n.send(ctx, event)
		},
	})
	if err != nil {
		n.logger.Warn("Notification not sent",
			zap.String("short_path", event.ShortPath),
			zap.String("operation", "notify_webhook"),
			zap.Error(err),
		)
	}
}

func (n *Notifier) send(ctx context.Context, event VisitEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request for %s: %w", event.ShortPath, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook for %s returned status %d", event.ShortPath, resp.StatusCode)
	}
	return nil
}
