// Package layouts provides the shared HTML document shell for Wardbook's
// server-rendered pages. Plugin packages wrap their page bodies in
// Document so every page shares the same head, styling, and footer.
package layouts

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// style is the single inline stylesheet for the whole portal. The pages are
// a handful of forms and tables; a static asset pipeline would be overkill.
const style = `
body { font-family: Georgia, serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { font-size: 1.5rem; border-bottom: 2px solid #355f91; padding-bottom: .4rem; }
form.stack label { display: block; margin-top: .8rem; font-weight: bold; }
form.stack input[type=text], form.stack input[type=password] { width: 16rem; padding: .3rem; }
form.stack button, form.inline button { margin-top: 1rem; padding: .4rem 1.2rem; }
.banner { padding: .6rem .8rem; margin: 1rem 0; border-left: 4px solid; }
.banner.error { border-color: #a33; background: #fbeaea; }
.banner.info { border-color: #355f91; background: #eaf1fb; }
table { border-collapse: collapse; margin-top: 1rem; width: 100%; }
th, td { border: 1px solid #bbb; padding: .4rem .6rem; text-align: left; }
th { background: #eef3f9; }
img.challenge { display: block; margin: .5rem 0; border: 1px solid #bbb; }
`

// Document wraps a page body in the full HTML document shell.
func Document(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			"<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\">"+
				"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">"+
				"<title>%s — Wardbook</title><style>%s</style></head><body>",
			templ.EscapeString(title), style,
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// CSRFField renders the hidden form field carrying the CSRF token.
func CSRFField(token string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<input type=\"hidden\" name=\"csrf_token\" value=\"%s\">",
			templ.EscapeString(token),
		)
		return err
	})
}
