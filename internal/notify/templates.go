package notify

import (
	"fmt"
	"html"
	"time"
)

func WelcomeMessage(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to the E-Learning Platform",
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>Your account has been created.</p>", html.EscapeString(name)),
	}
}

func PasswordResetMessage(to, link string, ttl time.Duration) Message {
	l := html.EscapeString(link)
	return Message{
		To:      to,
		Subject: "Password Reset Request",
		HTML: fmt.Sprintf(`<p>You requested a password reset.</p>`+
			`<p>Click <a href="%s">here</a> to reset your password. The link expires in %d minutes.</p>`+
			`<p>If you did not request this, ignore this email.</p>`, l, int(ttl.Minutes())),
	}
}

func PasswordChangedMessage(to string) Message {
	return Message{
		To:      to,
		Subject: "Your password was changed",
		HTML:    "<p>Your password has been reset successfully.</p>",
	}
}

func EnrollmentMessage(to, name, course string) Message {
	return Message{
		To:      to,
		Subject: "Enrollment confirmed",
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>You are now enrolled in <strong>%s</strong>.</p>",
			html.EscapeString(name), html.EscapeString(course)),
	}
}
