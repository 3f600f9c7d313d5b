package auth

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pellmont/wardbook/internal/templates/layouts"
)

// LoginPage renders the sign-in form. The challenge image and response
// field appear only when the session owes a challenge.
func LoginPage(csrfToken, username, surname, errMsg string, challengeRequired bool) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Wardbook</h1><p>Sign in to look up patient records.</p>"); err != nil {
			return err
		}

		if errMsg != "" {
			if _, err := fmt.Fprintf(w, "<div class=\"banner error\">%s</div>",
				templ.EscapeString(errMsg)); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "<form method=\"post\" action=\"/login\">"); err != nil {
			return err
		}
		if err := layouts.CSRFField(csrfToken).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			"<p><label for=\"username\">Username</label><br>"+
				"<input type=\"text\" id=\"username\" name=\"username\" value=\"%s\" autofocus></p>"+
				"<p><label for=\"password\">Password</label><br>"+
				"<input type=\"password\" id=\"password\" name=\"password\"></p>"+
				"<p><label for=\"surname\">Patient surname</label><br>"+
				"<input type=\"text\" id=\"surname\" name=\"surname\" value=\"%s\"></p>",
			templ.EscapeString(username),
			templ.EscapeString(surname),
		); err != nil {
			return err
		}

		if challengeRequired {
			if _, err := io.WriteString(w,
				"<p><img src=\"/captcha\" alt=\"verification image\" width=\"160\" height=\"50\"><br>"+
					"<label for=\"challenge_response\">Enter the characters shown above</label><br>"+
					"<input type=\"text\" id=\"challenge_response\" name=\"challenge_response\" autocomplete=\"off\"></p>"); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "<p><button type=\"submit\">Sign in</button></p></form>")
		return err
	})
	return layouts.Document("Sign in", body)
}
