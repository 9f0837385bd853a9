package handlers

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/proconnect-app/backend/internal/middleware"
	"github.com/proconnect-app/backend/internal/models"
)

// currentUserID returns the authenticated principal's ID from the
// request-scoped context, or 0 when the request is unauthenticated.
func currentUserID(c echo.Context) uint {
	claims, ok := c.Get(middleware.ContextKeyUser).(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// paginationParams reads page/limit query parameters with sane bounds
func paginationParams(c echo.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	return page, limit
}

// paginationMeta builds the standard pagination envelope
func paginationMeta(page, limit int, total int64) echo.Map {
	return echo.Map{
		"page":  page,
		"limit": limit,
		"total": total,
		"pages": int(math.Ceil(float64(total) / float64(limit))),
	}
}
