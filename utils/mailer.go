package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"innofolio/config"
)

// Embedded email templates
var emailTemplates = map[string]string{
	"group_invitation": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Group Invitation</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p><strong>{{.SenderName}}</strong> invited you to join the group <strong>{{.GroupName}}</strong>.</p>
        <p>Sign in and open your notifications to accept or decline.</p>
    </div>

    <div class="footer">
        <p>If you weren't expecting this invitation, you can safely ignore this email.</p>
        <p>&copy; {{.Year}} Innofolio. All rights reserved.</p>
    </div>
</body>
</html>`,

	"password_reset": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .button { display: inline-block; padding: 10px 20px; background-color: #3498db; color: white; text-decoration: none; border-radius: 4px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Password Reset Request</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>We received a request to reset your password. Click the button below to proceed:</p>

        <p style="text-align: center;">
            <a href="{{.ResetLink}}" class="button">Reset Password</a>
        </p>

        <p>If you didn't request a password reset, please ignore this email. This link will expire in 1 hour.</p>

        <p>Or copy and paste this link into your browser:<br>
        <small>{{.ResetLink}}</small></p>
    </div>

    <div class="footer">
        <p>For security reasons, don't share this link with anyone.</p>
        <p>&copy; {{.Year}} Innofolio. All rights reserved.</p>
    </div>
</body>
</html>`,
}

// SendGroupInvitationEmail notifies a user that they were invited to a group.
func SendGroupInvitationEmail(to, senderName, groupName string) error {
	subject := fmt.Sprintf("%s invited you to join %s", senderName, groupName)
	return sendEmail(to, subject, "group_invitation", map[string]interface{}{
		"Subject":    subject,
		"SenderName": senderName,
		"GroupName":  groupName,
		"Year":       time.Now().Year(),
	})
}

// SendPasswordResetEmail sends the reset link for a freshly issued token.
func SendPasswordResetEmail(to, resetToken string) error {
	subject := "Reset Your Password"
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, resetToken)
	return sendEmail(to, subject, "password_reset", map[string]interface{}{
		"Subject":   subject,
		"ResetLink": resetLink,
		"Year":      time.Now().Year(),
	})
}

func sendEmail(to, subject, templateName string, data map[string]interface{}) error {
	body, err := renderTemplate(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	// Without SMTP configured, log the message instead of failing. Matches
	// local development where no mail relay exists.
	if config.AppConfig.SMTPHost == "" {
		LogEvent("email_skipped", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.AppConfig.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func renderTemplate(name string, data map[string]interface{}) (string, error) {
	tmplText, ok := emailTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}

	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
