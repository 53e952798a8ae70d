package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
)

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return false
	}
	return true
}

// urlParam returns a required path parameter, writing a 400 when empty.
func urlParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	v := chi.URLParam(r, name)
	if v == "" {
		response.BadRequest(w, errors.New(label+" is required"))
		return "", false
	}
	return v, true
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
