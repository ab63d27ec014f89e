package service

import (
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.CodeRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.CodeRepository{}}
}

// SendResetCode 发送重置密码验证码。
// 先写 pending 键，邮件发出后再转 confirmed，避免发信失败留下可用验证码。
func (s *EmailService) SendResetCode(email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}

	if err = s.rds.SetPending(email, code); err != nil {
		return err
	}

	html := pkg.ResetCodeHTML(code, redis.DefaultResetCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, "密码重置验证码", html); err != nil {
		return err
	}

	if err = s.rds.Confirm(email); err != nil {
		_ = s.rds.DeletePending(email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码并一次性删除
func (s *EmailService) VerifyCode(email, code string) (bool, error) {
	val, err := s.rds.Get(email)
	if err != nil {
		// 不存在或已过期
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.Delete(email); err != nil {
		return false, err
	}
	return true, nil
}
