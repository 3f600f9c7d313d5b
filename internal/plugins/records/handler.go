package records

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pellmont/wardbook/internal/middleware"
)

type RecordHandler struct {
	service RecordService
}

func NewRecordHandler(service RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// Search renders the records page. Without a surname parameter it shows just
// the search form; with one it runs the lookup and shows the result table.
func (h *RecordHandler) Search(c echo.Context) error {
	csrfToken := middleware.GetCSRFToken(c)

	surname := c.QueryParam("surname")
	if surname == "" {
		return middleware.Render(c, http.StatusOK,
			ResultsPage(csrfToken, "", nil, false))
	}

	patients, err := h.service.SearchBySurname(c.Request().Context(), surname)
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK,
		ResultsPage(csrfToken, surname, patients, true))
}
