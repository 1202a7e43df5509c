package resend

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	resend "github.com/resend/resend-go/v2"
	"golang.org/x/xerrors"
)

// Service mails seed reports through Resend.
type Service struct {
	resendClient *resend.Client
	from         string
	to           string
	logger       *slog.Logger
}

// NewService creates a mailer sending from `from` to `to`.
func NewService(resendKey, from, to string, logger *slog.Logger) *Service {
	return newService(resend.NewClient(resendKey), from, to, logger)
}

func newService(client *resend.Client, from, to string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resendClient: client,
		from:         from,
		to:           to,
		logger:       logger,
	}
}

func (s Service) SendSeedReport(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: fmt.Sprintf("Event seed %s finished", report.RunID),
		Text:    report.Summary,
		Html:    getEmailTemplate(report),
	}

	sent, err := s.resendClient.Emails.Send(params)
	if err != nil {
		s.logger.Error("failed to send seed report", "run_id", report.RunID, "error", err)
		return xerrors.Errorf("send seed report: %w", err)
	}

	s.logger.Info("seed report sent", "run_id", report.RunID, "email_id", sent.Id, "to", s.to)
	return nil
}

func getEmailTemplate(report Report) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            margin: 0;
            padding: 20px;
        }
        .container {
            background-color: #ffffff;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
        pre {
            font-size: 13px;
            white-space: pre-wrap;
        }
    </style>
</head>
<body>
    <div class="container">
        <h2>Seed run %s</h2>
        <pre>%s</pre>
    </div>
</body>
</html>`, html.EscapeString(report.RunID), html.EscapeString(report.Summary))
}
