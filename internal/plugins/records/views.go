package records

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pellmont/wardbook/internal/templates/layouts"
)

// ResultsPage renders the patient record search page: a surname search form,
// the result table for the last search (when one was run), and a logout
// control. It is shown both directly after a successful login and on the
// authenticated /records page.
func ResultsPage(csrfToken, surname string, patients []Patient, searched bool) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Patient Records</h1>"); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			"<form class=\"inline\" method=\"get\" action=\"/records\">"+
				"<label for=\"surname\">Patient surname</label> "+
				"<input type=\"text\" id=\"surname\" name=\"surname\" value=\"%s\"> "+
				"<button type=\"submit\">Search</button></form>",
			templ.EscapeString(surname),
		); err != nil {
			return err
		}

		if searched {
			if err := resultsTable(patients).Render(ctx, w); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "<form class=\"inline\" method=\"post\" action=\"/logout\">"); err != nil {
			return err
		}
		if err := layouts.CSRFField(csrfToken).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "<button type=\"submit\">Sign out</button></form>")
		return err
	})
	return layouts.Document("Patient Records", body)
}

// resultsTable renders the match table, or a "no records" notice.
func resultsTable(patients []Patient) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(patients) == 0 {
			_, err := io.WriteString(w,
				"<div class=\"banner info\">No records matched that surname.</div>")
			return err
		}

		if _, err := io.WriteString(w,
			"<table><tr><th>Surname</th><th>Forename</th><th>Address</th>"+
				"<th>Date of birth</th><th>Doctor</th><th>Diagnosis</th></tr>"); err != nil {
			return err
		}
		for _, p := range patients {
			if _, err := fmt.Fprintf(w,
				"<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				templ.EscapeString(p.Surname),
				templ.EscapeString(p.Forename),
				templ.EscapeString(p.Address),
				templ.EscapeString(p.BornOn()),
				templ.EscapeString(p.DoctorID),
				templ.EscapeString(p.Diagnosis),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>")
		return err
	})
}
