package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("Failed to decode request body", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// decodeOptionalJSON is decodeJSON that accepts an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	response.BadRequest(w, "Invalid request format", nil)
	return false
}

// claimString returns a string claim from the verified token, or "".
func claimString(r *http.Request, key string) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	v, _ := claims[key].(string)
	return v
}

func claimBool(r *http.Request, key string) bool {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return false
	}
	v, _ := claims[key].(bool)
	return v
}

// requireCaller writes a 403 unless the caller is an admin or userID is the
// caller's own id. A token scoped to a company must also match companyID
// when one is given.
func requireCaller(w http.ResponseWriter, r *http.Request, userID, companyID string) bool {
	if claimBool(r, "is_admin") {
		return true
	}
	if caller := claimString(r, "user_id"); caller == "" || caller != userID {
		response.Forbidden(w, "You can only act on your own behalf")
		return false
	}
	if scoped := claimString(r, "company_id"); scoped != "" && companyID != "" && scoped != companyID {
		response.Forbidden(w, "Token is not valid for this company")
		return false
	}
	return true
}

// requireUUID writes a 422 when a path or query id is not a UUID.
func requireUUID(w http.ResponseWriter, field, value string) bool {
	if !validator.IsValidUUID(value) {
		response.ValidationError(w, map[string]string{field: field + " must be a valid UUID"})
		return false
	}
	return true
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryInt(r *http.Request, key string) *int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func queryBool(r *http.Request, key string) *bool {
	if v := r.URL.Query().Get(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}

// queryPage returns page and limit; zero values are normalized by the filters.
func queryPage(r *http.Request) (int, int) {
	page, limit := 0, 0
	if p := queryInt(r, "page"); p != nil {
		page = *p
	}
	if l := queryInt(r, "limit"); l != nil {
		limit = *l
	}
	return page, limit
}
