package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shortlink-redirect/internal/model"
	"shortlink-redirect/internal/worker"
)

// Submitter 后台任务投递，不阻塞调用方
type Submitter interface {
	Submit(task worker.Task) error
}

type VisitStore interface {
	UpsertIdentity(ctx context.Context, ip string, newID func() string) (string, error)
	Enqueue(ctx context.Context, item *model.VisitQueueItem) error
}

// VisitContext 请求信息快照，handler 返回后 gin.Context 会被复用
type VisitContext struct {
	IPAddress string
	UserAgent string
	VisitedAt time.Time
}

// VisitLogger 记录访问：UA 分类 -> IP 映射 -> 写入待处理队列
type VisitLogger struct {
	store       VisitStore
	tasks       Submitter
	environment string
	version     string
	logger      *zap.Logger
}

func NewVisitLogger(store VisitStore, tasks Submitter, environment, version string, logger *zap.Logger) *VisitLogger {
	return &VisitLogger{
		store:       store,
		tasks:       tasks,
		environment: environment,
		version:     version,
		logger:      logger,
	}
}

// Record 立即返回，失败只记录日志
func (l *VisitLogger) Record(shortPath string, vc VisitContext) {
	if vc.VisitedAt.IsZero() {
		vc.VisitedAt = time.Now()
	}
	err := l.tasks.Submit(worker.Task{
		Name: "record_visit",
		Run: func(ctx context.Context) error {
			return l.record(ctx, shortPath, vc)
		},
	})
	if err != nil {
		l.logger.Warn("Visit not recorded",
			zap.String("short_path", shortPath),
			zap.String("operation", "record_visit"),
			zap.Error(err),
		)
	}
}

func (l *VisitLogger) record(ctx context.Context, shortPath string, vc VisitContext) error {
	browser, os := ClassifyUserAgent(vc.UserAgent)

	// 映射失败不丢弃访问记录
	userID, err := l.store.UpsertIdentity(ctx, vc.IPAddress, uuid.NewString)
	if err != nil {
		l.logger.Warn("Identity upsert failed",
			zap.String("short_path", shortPath),
			zap.String("operation", "upsert_identity"),
			zap.Error(err),
		)
		userID = ""
	}

	item := &model.VisitQueueItem{
		ShortPath:   shortPath,
		IPAddress:   vc.IPAddress,
		UserAgent:   truncateUTF8(vc.UserAgent, model.MaxUserAgentLen),
		Browser:     browser,
		OS:          os,
		Environment: l.environment,
		Version:     l.version,
		UserID:      userID,
		VisitedAt:   vc.VisitedAt,
	}
	if err := l.store.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("enqueue visit for %s: %w", shortPath, err)
	}
	return nil
}

// truncateUTF8 按字节截断，不切开多字节字符
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
