// Package ses delivers audit report summaries via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/utils"
)

// SendAPI is the subset of the SES client used by the service.
type SendAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Service handles SES email operations
type Service struct {
	client    SendAPI
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates an SES service sending from the given address.
func NewService(ctx context.Context, region, fromEmail string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Service{client: ses.NewFromConfig(cfg), fromEmail: fromEmail}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client SendAPI, fromEmail string) *Service {
	return &Service{client: client, fromEmail: fromEmail}
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	utils.GetLogger().Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{MessageID: messageID, SentAt: time.Now()}, nil
}

// SendAuditReport emails a summary of the report to the homeowner.
func (s *Service) SendAuditReport(ctx context.Context, to string, report *models.AuditReport) error {
	htmlBody, err := RenderReportHTML(report)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	_, err = s.SendEmail(ctx, EmailParams{
		To:       to,
		Subject:  ReportSubject(report),
		HTMLBody: htmlBody,
		TextBody: RenderReportText(report),
	})
	return err
}

// ReportSubject builds the email subject line.
func ReportSubject(report *models.AuditReport) string {
	return fmt.Sprintf("Your home energy audit: grade %s, save up to $%.0f/yr",
		report.Score.Grade, report.Financial.TotalAnnualSavings)
}

const reportHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2e7d32; color: white; padding: 24px; border-radius: 10px 10px 0 0; text-align: center; }
        .content { background: #f9f9f9; padding: 24px; border-radius: 0 0 10px 10px; }
        .rec { background: white; border-radius: 8px; padding: 16px; margin: 12px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .rec h3 { margin: 0 0 6px 0; color: #2e7d32; }
        .badge { display: inline-block; padding: 2px 10px; border-radius: 12px; background: #e8f5e9; font-size: 12px; }
        .footer { text-align: center; margin-top: 24px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Energy score {{printf "%.0f" .Score.Score}} ({{.Score.Grade}})</h1>
        <p>{{.Score.Label}} for a {{printf "%.0f" .Home.SquareFeet}} sq ft home in {{.Home.ZipCode}}</p>
    </div>
    <div class="content">
        <p>Estimated annual energy cost: <strong>${{printf "%.0f" .Usage.AnnualCost}}</strong>
           ({{printf "%.1f" .Usage.EUI}} kBTU per sq ft).</p>
        <p>Installing every recommendation saves about <strong>${{printf "%.0f" .Financial.TotalAnnualSavings}}</strong> per year
           for ${{printf "%.0f" .Financial.TotalInvestment}} before ${{printf "%.0f" .Financial.TotalRebates}} in incentives.</p>
        {{range .Recommendations}}
        <div class="rec">
            <h3>{{.Name}} <span class="badge">{{.Priority}}</span></h3>
            <div>Saves ${{printf "%.0f" .AnnualSavings.Dollars}}/yr, costs about ${{printf "%.0f" .Cost.Mid}}, payback {{.PaybackLabel}}</div>
        </div>
        {{end}}
    </div>
    <div class="footer">
        <p>Audit {{.AuditID}}</p>
    </div>
</body>
</html>`

var reportTemplate = template.Must(template.New("audit_report").Parse(reportHTML))

// RenderReportHTML renders the HTML email body.
func RenderReportHTML(report *models.AuditReport) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderReportText renders the plain text email body.
func RenderReportText(report *models.AuditReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Energy score: %.0f (%s, %s)\n", report.Score.Score, report.Score.Grade, report.Score.Label)
	fmt.Fprintf(&b, "Estimated annual energy cost: $%.0f\n\n", report.Usage.AnnualCost)
	b.WriteString("Recommendations:\n\n")

	for i := range report.Recommendations {
		r := &report.Recommendations[i]
		fmt.Fprintf(&b, "%d. %s [%s]\n", i+1, r.Name, r.Priority)
		fmt.Fprintf(&b, "   Saves $%.0f/yr, costs about $%.0f, payback %s\n", r.AnnualSavings.Dollars, r.Cost.Mid, r.PaybackLabel())
		if r.RebateTotal > 0 {
			fmt.Fprintf(&b, "   Incentives: $%.0f\n", r.RebateTotal)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Audit ID: %s\n", report.AuditID)
	return b.String()
}
