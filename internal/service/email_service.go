// Package service
package service

import (
	"context"
	"errors"
	"html/template"
	"strconv"
	"strings"
	"time"

	c "github.com/half-nothing/simple-schedule/internal/interfaces/config"
	"github.com/half-nothing/simple-schedule/internal/interfaces/global"
	"github.com/half-nothing/simple-schedule/internal/interfaces/log"
	"github.com/half-nothing/simple-schedule/internal/interfaces/operation"
	. "github.com/half-nothing/simple-schedule/internal/interfaces/service"
	"github.com/thanhpk/randstr"
	"gopkg.in/gomail.v2"
)

// maxVerifyAttempts 验证码连续输错的次数上限, 达到后验证码作废
const maxVerifyAttempts = 5

// MailSender 发送邮件, *gomail.Dialer 实现了该接口
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

var ErrTemplateNotInitialized = errors.New("error template not initialized")

type EmailService struct {
	logger    log.LoggerInterface
	config    *c.EmailConfig
	sender    MailSender
	codeStore CodeStoreInterface
	now       func() time.Time
}

type EmailVerifyTemplateData struct {
	Username string
	Code     string
	Expired  string
}

type EmailPermissionChangeData struct {
	Username    string
	Operator    string
	Permissions string
	Contact     string
}

type EmailScheduleJoinedData struct {
	Owner       string
	Participant string
	Title       string
	StartAt     string
	Count       string
}

// NewEmailService sender 为 nil 时使用配置中的 SMTP 服务器, 两者都为空时不发送邮件
func NewEmailService(logger log.LoggerInterface, config *c.EmailConfig, sender MailSender, codeStore CodeStoreInterface) *EmailService {
	if sender == nil && config.EmailServer != nil {
		sender = config.EmailServer
	}
	return &EmailService{
		logger:    logger,
		config:    config,
		sender:    sender,
		codeStore: codeStore,
		now:       time.Now,
	}
}

func (emailService *EmailService) enabled() bool {
	return emailService.sender != nil
}

func (emailService *EmailService) RenderTemplate(template *template.Template, data interface{}) (string, error) {
	if template == nil {
		return "", ErrTemplateNotInitialized
	}
	var sb strings.Builder
	if err := template.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (emailService *EmailService) VerifyCode(email string, code int) error {
	if !emailService.enabled() || global.SkipEmailVerification {
		return nil
	}
	ctx := context.Background()
	emailCode, err := emailService.codeStore.Get(ctx, email)
	if err != nil {
		return err
	}

	if emailService.now().Sub(emailCode.SendTime) > emailService.config.VerifyExpiredDuration {
		return ErrEmailCodeExpired
	}

	if emailCode.Code != code {
		emailService.recordFailedAttempt(ctx, email, emailCode)
		return ErrInvalidEmailCode
	}

	if err := emailService.codeStore.Delete(ctx, email); err != nil {
		emailService.logger.WarnF("Fail to delete used email code of %s: %v", email, err)
	}
	return nil
}

// recordFailedAttempt 记录一次错误输入, 达到上限后删除验证码
func (emailService *EmailService) recordFailedAttempt(ctx context.Context, email string, emailCode *VerifyCode) {
	emailCode.Attempts++
	if emailCode.Attempts >= maxVerifyAttempts {
		emailService.logger.WarnF("Too many wrong email codes for %s, code revoked", email)
		if err := emailService.codeStore.Delete(ctx, email); err != nil {
			emailService.logger.WarnF("Fail to delete revoked email code of %s: %v", email, err)
		}
		return
	}
	ttl := emailService.config.VerifyExpiredDuration - emailService.now().Sub(emailCode.SendTime)
	if ttl <= 0 {
		return
	}
	if err := emailService.codeStore.Put(ctx, email, emailCode, ttl); err != nil {
		emailService.logger.WarnF("Fail to record email code attempt of %s: %v", email, err)
	}
}

// newVerifyCode 生成六位数字验证码, 首位不为0
func newVerifyCode() int {
	code, _ := strconv.Atoi(randstr.String(1, "123456789") + randstr.Dec(5))
	return code
}

func (emailService *EmailService) send(to, subject string, tmpl *template.Template, data interface{}) error {
	message, err := emailService.RenderTemplate(tmpl, data)
	if err != nil {
		emailService.logger.WarnF("Error rendering email template %s: %v", subject, err)
		return ErrRenderingTemplate
	}

	m := gomail.NewMessage()
	m.SetHeader("From", emailService.config.Username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", message)

	if err := emailService.sender.DialAndSend(m); err != nil {
		emailService.logger.ErrorF("Fail to send email to %s: %v", to, err)
		return errors.Join(ErrSendEmail, err)
	}
	return nil
}

func (emailService *EmailService) SendEmailCode(email string) error {
	if !emailService.enabled() {
		return nil
	}
	email = strings.ToLower(email)
	ctx := context.Background()
	now := emailService.now()

	lastCode, err := emailService.codeStore.Get(ctx, email)
	if err != nil && !errors.Is(err, ErrEmailCodeNotFound) {
		return err
	}
	if lastCode != nil && now.Sub(lastCode.SendTime) < emailService.config.SendDuration {
		return ErrEmailSendInterval
	}

	code := newVerifyCode()
	data := &EmailVerifyTemplateData{
		Username: email,
		Code:     strconv.Itoa(code),
		Expired:  strconv.Itoa(int(emailService.config.VerifyExpiredDuration.Minutes())),
	}

	if err := emailService.codeStore.Put(ctx, email, &VerifyCode{Code: code, SendTime: now}, emailService.config.VerifyExpiredDuration); err != nil {
		return err
	}

	emailService.logger.InfoF("Sending email verification code to %s", email)

	return emailService.send(email, "您的验证码", emailService.config.Template.EmailVerifyTemplate, data)
}

func (emailService *EmailService) SendEmailVerifyCode(req *RequestEmailVerifyCode) (*ResponseEmailVerifyCode, error) {
	err := emailService.SendEmailCode(req.Email)
	switch {
	case err == nil:
		return &ResponseEmailVerifyCode{Email: req.Email}, nil
	case errors.Is(err, ErrEmailSendInterval):
		return nil, &ApiStatus{
			StatusName:  "EMAIL_SEND_INTERVAL",
			Description: "邮件已发送, 请在" + strconv.Itoa(int(emailService.config.SendDuration.Seconds())) + "秒后重试",
			HttpCode:    TooManyRequests,
		}
	case errors.Is(err, ErrRenderingTemplate):
		return nil, &ErrRenderTemplate
	case errors.Is(err, ErrSendEmail):
		return nil, &ErrEmailSendFail
	default:
		emailService.logger.ErrorF("Fail to store email code: %v", err)
		return nil, &ErrServerInternal
	}
}

func (emailService *EmailService) SendPermissionChangeEmail(user *operation.User, operator *operation.User) error {
	if !emailService.enabled() || !emailService.config.Template.EnablePermissionChangeEmail {
		return nil
	}
	permission := operation.Permission(user.Permission)
	data := &EmailPermissionChangeData{
		Username:    user.Username,
		Operator:    operator.Username,
		Permissions: permission.String(),
		Contact:     operator.Email,
	}

	emailService.logger.InfoF("Sending permission change email to %s(%d)", user.Email, user.ID)

	return emailService.send(strings.ToLower(user.Email), "管理权限变更通知", emailService.config.Template.PermissionChangeTemplate, data)
}

func (emailService *EmailService) SendScheduleJoinedEmail(owner *operation.User, participant *operation.User, schedule *operation.Schedule, count int64) error {
	if !emailService.enabled() || !emailService.config.Template.EnableScheduleJoinedEmail {
		return nil
	}
	data := &EmailScheduleJoinedData{
		Owner:       owner.Username,
		Participant: participant.Username,
		Title:       schedule.Title,
		StartAt:     schedule.StartAt.Local().Format(time.DateTime),
		Count:       strconv.FormatInt(count, 10),
	}

	emailService.logger.InfoF("Sending schedule joined email to %s(%d)", owner.Email, owner.ID)

	return emailService.send(strings.ToLower(owner.Email), "日程报名通知", emailService.config.Template.ScheduleJoinedTemplate, data)
}

var (
	ErrRenderTemplate = ApiStatus{StatusName: "RENDER_TEMPLATE_ERROR", Description: "发送失败", HttpCode: ServerInternalError}
	ErrEmailSendFail  = ApiStatus{StatusName: "EMAIL_SEND_ERROR", Description: "发送失败", HttpCode: ServerInternalError}
)
