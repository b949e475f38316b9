package service

import (
	"crypto/tls"
	"net/mail"
	"strings"
	"time"

	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/i18n"
	"github.com/tryon-shop/internal/models"

	gomail "gopkg.in/mail.v2"
)

const emailDialTimeout = 20 * time.Second

// EmailService 邮件发送服务
type EmailService struct {
	cfg    *config.EmailConfig
	sender func(d *gomail.Dialer, m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg: cfg,
		sender: func(d *gomail.Dialer, m *gomail.Message) error {
			return d.DialAndSend(m)
		},
	}
}

// Enabled 是否可发送
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// OrderStatusEmailInput 订单状态邮件输入
type OrderStatusEmailInput struct {
	OrderNumber string
	Status      string
	Amount      models.Money
	Currency    string
	TotalItems  int
}

// SendOrderStatusEmail 发送订单状态通知
func (s *EmailService) SendOrderStatusEmail(toEmail string, input OrderStatusEmailInput, locale string) error {
	subject, body := buildOrderStatusContent(input, locale)
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if !s.Enabled() {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	m := gomail.NewMessage()
	if strings.TrimSpace(s.cfg.FromName) != "" {
		m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	} else {
		m.SetHeader("From", s.cfg.From)
	}
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.Timeout = emailDialTimeout
	d.SSL = s.cfg.UseSSL
	d.TLSConfig = &tls.Config{ServerName: s.cfg.Host}

	return normalizeEmailSendError(s.sender(d, m))
}

func buildOrderStatusContent(input OrderStatusEmailInput, locale string) (string, string) {
	status := normalizeOrderStatus(input.Status)
	statusKey := "order.status." + status
	statusLabel := i18n.T(locale, statusKey)
	if statusLabel == statusKey {
		statusLabel = input.Status
	}
	amount := input.Amount.String()
	currency := strings.TrimSpace(input.Currency)
	subject := i18n.Sprintf(locale, "email.order_status.subject", input.OrderNumber, statusLabel)

	bodyKey := "email.order_status.body"
	switch status {
	case "pending":
		bodyKey = "email.order_status.body_created"
	case "cancelled":
		bodyKey = "email.order_status.body_cancelled"
	}
	body := i18n.Sprintf(locale, bodyKey, input.OrderNumber, statusLabel, input.TotalItems, amount, currency)
	return subject, body
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	keywords := []string{
		"no such recipient",
		"no such user",
		"recipient address rejected",
		"user unknown",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		for _, hint := range []string{"recipient", "user", "mailbox", "rcpt"} {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
