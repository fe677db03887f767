package monday

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/switchboard/internal/connectors/rest"
)

// GraphQLError is a failed GraphQL operation.
type GraphQLError struct {
	Messages   []string
	Code       string
	StatusCode int
}

func (e *GraphQLError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = "unknown error"
	}
	if e.Code != "" {
		return fmt.Sprintf("monday: graphql: %s (%s)", msg, e.Code)
	}
	return "monday: graphql: " + msg
}

// complexityCodes are the codes monday uses when a budget runs out.
var complexityCodes = map[string]bool{
	"ComplexityException":              true,
	"COMPLEXITY_BUDGET_EXHAUSTED":      true,
	"RATE_LIMIT_EXCEEDED":              true,
	"DAILY_LIMIT_EXCEEDED":             true,
	"IP_RATE_LIMIT_EXCEEDED":           true,
	"Rate Limit Exceeded":              true,
	"maxConcurrencyExceeded":           true,
	"CONCURRENCY_LIMIT_EXCEEDED":       true,
	"FIELD_MINUTE_RATE_LIMIT_EXCEEDED": true,
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code           string `json:"code"`
		RetryInSeconds int    `json:"retry_in_seconds"`
	} `json:"extensions"`
}

// envelope is the response shape shared by every operation.
type envelope struct {
	Errors       []gqlError `json:"errors"`
	ErrorMessage string     `json:"error_message"`
	ErrorCode    string     `json:"error_code"`
}

// toError converts the error fields of env, returning nil when there are none.
func (env *envelope) toError(status int, now time.Time) error {
	if len(env.Errors) == 0 && env.ErrorMessage == "" {
		return nil
	}

	gerr := &GraphQLError{Code: env.ErrorCode, StatusCode: status}
	if env.ErrorMessage != "" {
		gerr.Messages = append(gerr.Messages, env.ErrorMessage)
	}
	retry := 0
	for _, e := range env.Errors {
		gerr.Messages = append(gerr.Messages, e.Message)
		if gerr.Code == "" {
			gerr.Code = e.Extensions.Code
		}
		retry = max(retry, e.Extensions.RetryInSeconds)
	}

	if complexityCodes[gerr.Code] {
		rl := &rest.RateLimitError{Vendor: "monday"}
		if retry > 0 {
			rl.ResetAt = now.Add(time.Duration(retry) * time.Second)
		}
		return fmt.Errorf("%w: %s", rl, strings.Join(gerr.Messages, "; "))
	}
	return gerr
}
