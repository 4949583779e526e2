package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ==================== LOGS ====================

// LogFilter selects VPSA event log messages.
type LogFilter struct {
	Sort     string // ASC or DESC, DESC when empty
	Severity *int   // e.g. 3 for critical, 4 for warning
}

// ListLogs lists VPSA event log messages.
func (c *Client) ListLogs(ctx context.Context, filter LogFilter, page Page) (*Response, error) {
	direction := filter.Sort
	if direction == "" {
		direction = "DESC"
	}
	if direction != "ASC" && direction != "DESC" {
		return nil, invalid("sort must be ASC or DESC, got %q", filter.Sort)
	}

	params := url.Values{}
	params.Set("sort", fmt.Sprintf(`[{"property":"msg-time","direction":"%s"}]`, direction))
	if filter.Severity != nil {
		if *filter.Severity < 0 {
			return nil, invalid("severity must not be negative, got %d", *filter.Severity)
		}
		params.Set("severity", strconv.Itoa(*filter.Severity))
	}
	return c.list(ctx, "/api/messages.json", page, params)
}
