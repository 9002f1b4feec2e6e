package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/blog-search/internal/page"
	"github.com/pdiddy/blog-search/internal/render"
	"github.com/pdiddy/blog-search/internal/widget"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// handleSearchPage renders the host page with the widget applied to the
// request URL.
func (s *Server) handleSearchPage(c echo.Context) error {
	f, err := os.Open(s.page)
	if err != nil {
		fmt.Fprintf(s.log, "error: opening search page: %v\n", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search page unavailable")
	}
	defer f.Close()

	doc, err := page.Parse(f)
	if err != nil {
		fmt.Fprintf(s.log, "error: %v\n", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search page unavailable")
	}

	var display widget.Display
	if anchors, ok := doc.Locate(); ok {
		display = anchors
	}
	phase := s.widget.Run(c.Request().Context(), display, c.Request().URL.String())
	s.metrics.Observe(phase)

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		fmt.Fprintf(s.log, "error: %v\n", err)
		return echo.NewHTTPError(http.StatusInternalServerError, render.MsgFailed)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

type apiResult struct {
	render.Card
	Score float64 `json:"score"`
}

type apiResponse struct {
	Query   string      `json:"query"`
	Message string      `json:"message"`
	Total   int         `json:"total"`
	Results []apiResult `json:"results"`
}

type apiError struct {
	Error string `json:"error"`
}

// handleAPISearch runs q and returns up to limit rendered results.
func (s *Server) handleAPISearch(c echo.Context) error {
	query := c.QueryParam(widget.QueryParam)

	limit := defaultLimit
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	matches, err := s.widget.Search(c.Request().Context(), query)
	switch {
	case errors.Is(err, widget.ErrQueryEmpty):
		s.metrics.Observe(widget.PhaseEmptyQuery)
		return c.JSON(http.StatusBadRequest, apiError{Error: render.MsgEmptyQuery})
	case errors.Is(err, widget.ErrQueryTooShort):
		s.metrics.Observe(widget.PhaseTooShort)
		return c.JSON(http.StatusBadRequest, apiError{Error: render.TooShortMessage(widget.MinQueryLength)})
	case err != nil:
		s.metrics.Observe(widget.PhaseFailed)
		return c.JSON(http.StatusInternalServerError, apiError{Error: render.MsgFailed})
	}
	s.metrics.Observe(widget.PhaseRendered)

	query = widget.NormalizeQuery(query)
	view := render.Render(matches, query)
	resp := apiResponse{
		Query:   query,
		Message: view.Message,
		Total:   len(matches),
		Results: make([]apiResult, 0, min(limit, len(matches))),
	}
	for i, card := range view.Cards {
		if i >= limit {
			break
		}
		resp.Results = append(resp.Results, apiResult{Card: card, Score: matches[i].Score})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
