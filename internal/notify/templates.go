package notify

import (
	"fmt"

	"github.com/mayank-anckr/express-kit/internal/model"
)

// WelcomeEmail is sent after a successful sign-up.
func WelcomeEmail(to string) model.EmailMessage {
	return model.EmailMessage{
		To:      to,
		Subject: "Welcome aboard!",
		Text:    "Your account has been created successfully. We are glad to have you with us.",
	}
}

// ResetPasswordEmail carries the password reset link.
func ResetPasswordEmail(to, resetURL string) model.EmailMessage {
	html := fmt.Sprintf(`<html>
  <body style="font-family: sans-serif;">
    <h2>Password Reset</h2>
    <p>We received a request to reset the password for your account.</p>
    <p><a href="%s" style="display:inline-block;padding:10px 20px;background:#2d7ff9;color:#fff;text-decoration:none;border-radius:4px;">Reset Password</a></p>
    <p>If you did not request this, you can ignore this email.</p>
  </body>
</html>`, resetURL)

	return model.EmailMessage{
		To:      to,
		Subject: "Reset your password",
		Text:    "Follow this link to reset your password: " + resetURL,
		HTML:    html,
	}
}
