// Package workflow holds the cross-entity processes that run after a
// mutation lands, currently the onboarding progress notifications.
package workflow

import (
	"context"
	"fmt"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
)

// NotifyOnboardingProgress mails the supervisor when an agent's onboarding
// moves forward, and additionally mails every admin once it completes.
// Notification failures are logged, never returned: the progress update
// itself already succeeded upstream.
func NotifyOnboardingProgress(ctx context.Context, client *platform.Client, record models.Onboarding) {
	logger := config.GetLogger()

	if record.SupervisorEmail != "" {
		subject := fmt.Sprintf("Onboarding update: %s at %d%%", record.AgentName, record.ProgressPercentage)
		body := fmt.Sprintf(
			"<p>%s has reached %d%% of their onboarding checklist.</p>",
			record.AgentName, record.ProgressPercentage,
		)
		if err := client.SendEmail(ctx, record.SupervisorEmail, subject, body); err != nil {
			config.LogError(logger, "workflow", "NotifyOnboardingProgress", "supervisor email", record.ID, err)
		}
	}

	if record.Status != models.OnboardingStatusCompleted {
		return
	}

	admins, err := platform.Filter[models.FieldAgent](ctx, client, platform.EntityFieldAgent, map[string]any{
		"role":      models.RoleAdmin,
		"is_active": true,
	})
	if err != nil {
		config.LogError(logger, "workflow", "NotifyOnboardingProgress", "list admins", record.ID, err)
		return
	}

	subject := fmt.Sprintf("Onboarding completed: %s", record.AgentName)
	body := fmt.Sprintf("<p>%s has completed onboarding and is ready for field assignment.</p>", record.AgentName)
	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		if err := client.SendEmail(ctx, admin.Email, subject, body); err != nil {
			config.LogError(logger, "workflow", "NotifyOnboardingProgress", "admin email", admin.Email, err)
		}
	}
}
