package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// enqueueMail 把邮件投递到消息队列，由 cmd/mail 的 worker 发送。
// 入队失败只记录日志，不影响本次请求的结果。
func (h *Handler) enqueueMail(r *http.Request, msg domain.MailMessage) {
	if h.mailChannel == nil {
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		slog.Error("无法序列化邮件", "method", r.Method, "path", r.URL.Path, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Error("无法将邮件投递到消息队列", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}
