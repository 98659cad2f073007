package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mbeckner/voteboard/internal/domain"
	apperrors "github.com/mbeckner/voteboard/internal/errors"
)

type postArticleRequest struct {
	Poster string `json:"poster"`
	Title  string `json:"title"`
	Link   string `json:"link"`
}

type voteRequest struct {
	User string `json:"user"`
}

type groupsRequest struct {
	Groups []string `json:"groups"`
}

func (s *Server) handlePostArticle(c echo.Context) error {
	ctx := c.Request().Context()

	var req postArticleRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	id, err := s.app.PostArticle(ctx, req.Poster, req.Title, req.Link)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, map[string]int64{"id": id}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetArticle(c echo.Context) error {
	ctx := c.Request().Context()

	articleID, err := parseArticleIDParam(c)
	if err != nil {
		return err
	}

	article, err := s.app.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, article); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleVote(c echo.Context) error {
	ctx := c.Request().Context()

	articleID, err := parseArticleIDParam(c)
	if err != nil {
		return err
	}

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	outcome, err := s.app.Vote(ctx, req.User, articleID)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, map[string]domain.VoteOutcome{"outcome": outcome}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListArticles(c echo.Context) error {
	ctx := c.Request().Context()

	basis, page, err := parseListingParams(c)
	if err != nil {
		return err
	}

	articles, err := s.app.ListArticles(ctx, basis, page)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, articles); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAddToGroups(c echo.Context) error {
	ctx := c.Request().Context()

	articleID, err := parseArticleIDParam(c)
	if err != nil {
		return err
	}

	var req groupsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if err := s.app.AddToGroups(ctx, articleID, req.Groups); err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleRemoveFromGroups(c echo.Context) error {
	ctx := c.Request().Context()

	articleID, err := parseArticleIDParam(c)
	if err != nil {
		return err
	}

	var req groupsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if err := s.app.RemoveFromGroups(ctx, articleID, req.Groups); err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListGroupArticles(c echo.Context) error {
	ctx := c.Request().Context()

	group := c.Param("group")

	basis, page, err := parseListingParams(c)
	if err != nil {
		return err
	}

	articles, err := s.app.ListGroupArticles(ctx, group, basis, page)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, articles); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func parseArticleIDParam(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.ValidationError("invalid article id").WithField("id", raw)
	}
	return id, nil
}

func parseListingParams(c echo.Context) (domain.OrderBasis, int, error) {
	rawOrder := c.QueryParam("order")
	basis, ok := domain.ParseOrderBasis(rawOrder)
	if !ok {
		return "", 0, apperrors.ValidationError("invalid order basis").WithField("order", rawOrder)
	}

	page := 1
	if rawPage := c.QueryParam("page"); rawPage != "" {
		parsed, err := strconv.Atoi(rawPage)
		if err != nil || parsed < 1 {
			return "", 0, apperrors.ValidationError("page must be a positive integer").WithField("page", rawPage)
		}
		page = parsed
	}

	return basis, page, nil
}
