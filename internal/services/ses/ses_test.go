package ses_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsses "github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/ses"
)

type fakeSES struct {
	inputs []*awsses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *awsses.SendEmailInput, _ ...func(*awsses.Options)) (*awsses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &awsses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func sampleReport() *models.AuditReport {
	payback := 0.55
	return &models.AuditReport{
		AuditID: "audit-123",
		Home:    models.HomeSummary{SquareFeet: 2000, ZipCode: "02139"},
		Score:   models.EnergyScore{Score: 17.9, Grade: "F", Label: "Poor"},
		Usage:   models.CurrentUsage{AnnualCost: 5020.53, EUI: 90.2},
		Financial: models.FinancialSummary{
			TotalAnnualSavings: 3500.95,
			TotalInvestment:    47490,
			TotalRebates:       9800,
		},
		Recommendations: []models.RecommendationCandidate{
			{
				Name:          "LED Lighting Retrofit",
				Priority:      models.PriorityHigh,
				AnnualSavings: models.Savings{Dollars: 435.10},
				Cost:          models.CostRange{Mid: 240},
				PaybackYears:  &payback,
			},
			{
				Name:          "Window Replacement",
				Priority:      models.PriorityLow,
				AnnualSavings: models.Savings{Dollars: 0},
				Cost:          models.CostRange{Mid: 12000},
				RebateTotal:   600,
			},
		},
	}
}

func TestSendEmail(t *testing.T) {
	client := &fakeSES{}
	svc := ses.NewWithClient(client, "audits@example.com")

	result, err := svc.SendEmail(context.Background(), ses.EmailParams{
		To:       "owner@example.com",
		Subject:  "Hello",
		TextBody: "text",
		ReplyTo:  "support@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", result.MessageID)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "audits@example.com", aws.ToString(in.Source))
	assert.Equal(t, []string{"owner@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, []string{"support@example.com"}, in.ReplyToAddresses)
	assert.Nil(t, in.Message.Body.Html)
	assert.Equal(t, "text", aws.ToString(in.Message.Body.Text.Data))
}

func TestSendAuditReport(t *testing.T) {
	client := &fakeSES{}
	svc := ses.NewWithClient(client, "audits@example.com")

	require.NoError(t, svc.SendAuditReport(context.Background(), "owner@example.com", sampleReport()))

	require.Len(t, client.inputs, 1)
	msg := client.inputs[0].Message
	assert.Equal(t, "Your home energy audit: grade F, save up to $3501/yr", aws.ToString(msg.Subject.Data))
	assert.Contains(t, aws.ToString(msg.Body.Html.Data), "LED Lighting Retrofit")
	assert.Contains(t, aws.ToString(msg.Body.Text.Data), "Audit ID: audit-123")
}

func TestSendAuditReport_ClientError(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	svc := ses.NewWithClient(client, "audits@example.com")

	err := svc.SendAuditReport(context.Background(), "owner@example.com", sampleReport())
	assert.ErrorContains(t, err, "failed to send email")
}

func TestRenderReportHTML(t *testing.T) {
	html, err := ses.RenderReportHTML(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, html, "Energy score 18 (F)")
	assert.Contains(t, html, "02139")
	assert.Contains(t, html, "payback 7 months")
	assert.Contains(t, html, "payback N/A")
	assert.Contains(t, html, "Audit audit-123")
}

func TestRenderReportText(t *testing.T) {
	text := ses.RenderReportText(sampleReport())

	assert.Contains(t, text, "Energy score: 18 (F, Poor)")
	assert.Contains(t, text, "Estimated annual energy cost: $5021")
	assert.Contains(t, text, "1. LED Lighting Retrofit [High]")
	assert.Contains(t, text, "Saves $435/yr, costs about $240, payback 7 months")
	assert.Contains(t, text, "2. Window Replacement [Low]")
	assert.Contains(t, text, "Incentives: $600")
}
