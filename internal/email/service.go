package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/fisiomanager/clinic-api/internal/config"
	"github.com/fisiomanager/clinic-api/internal/model"
)

// Service sends transactional email. Failures are the caller's problem to
// log; nothing here is on a request's critical path.
type Service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) *Service {
	return &Service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *Service) SendWelcome(to, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Bem-vindo ao FisioManager")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Olá %s,</p><p>Sua clínica foi cadastrada com sucesso. Bons atendimentos!</p>",
		name,
	))
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *Service) SendPaymentReceipt(to string, plan model.Plan) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Pagamento confirmado")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Recebemos seu pagamento de R$ %.2f (%s).</p><p>Seu acesso foi estendido por %d dias.</p>",
		plan.Price, plan.Title, plan.DurationDays,
	))
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send payment receipt: %w", err)
	}
	return nil
}
