// Package pages holds the shared top-level pages that don't belong to any
// plugin: the error page rendered by the central error handler.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pellmont/wardbook/internal/templates/layouts"
)

// ErrorPage renders a generic error page for the given HTTP status code.
// The message must already be client-safe; internal error details never
// reach this component.
func ErrorPage(code int, message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<h1>Error %d</h1><div class=\"banner error\">%s</div>"+
				"<p><a href=\"/login\">Return to sign in</a></p>",
			code, templ.EscapeString(message),
		)
		return err
	})
	return layouts.Document(fmt.Sprintf("Error %d", code), body)
}
