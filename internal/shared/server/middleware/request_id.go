package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "requestId"
	questionIDKey   = "questionId"
	roundIDKey      = "roundId"

	maxRequestIDLen = 64
)

// RequestID attaches a request ID to context and response header. A caller-supplied ID
// is echoed only when it is at most 64 URL-safe characters; otherwise a fresh one is used.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}

// SetQuestionID records the question a request acts on so it is logged with the request.
func SetQuestionID(c *gin.Context, id string) {
	if id != "" {
		c.Set(questionIDKey, id)
	}
}

// SetRoundID records the interview round a request acts on.
func SetRoundID(c *gin.Context, id string) {
	if id != "" {
		c.Set(roundIDKey, id)
	}
}

// interviewFields adds the interview-scoped identifiers of a request to fields.
func interviewFields(c *gin.Context, fields map[string]any) {
	if id := c.Param("id"); id != "" {
		fields["resource_id"] = id
	}
	if id := c.GetString(questionIDKey); id != "" {
		fields["question_id"] = id
	}
	if id := c.GetString(roundIDKey); id != "" {
		fields["round_id"] = id
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}
