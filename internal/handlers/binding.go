package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// errEmptyBody is returned when a create request carries no JSON at all
var errEmptyBody = errors.New("request body is required")

// BindNestedOrFlat decodes the JSON body into obj. Clients may wrap the record
// under key ({"expense": {...}}) or send it flat ({...}); both bind the same.
// The body is restored so later binders can read it again.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if nested, ok := envelope[key]; ok {
			return json.Unmarshal(nested, obj)
		}
	}
	return json.Unmarshal(body, obj)
}
