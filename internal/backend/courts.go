package backend

import (
	"context"
	"net/http"
	"net/url"
)

// AvailableCourts fetches the availability of every court for the given date
// ("YYYY-MM-DD") and time range ("HH:MM"). The result is only meaningful for
// that exact selection.
func (c *Client) AvailableCourts(ctx context.Context, date, startTime, endTime string) (*Availability, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("startTime", startTime)
	q.Set("endTime", endTime)

	var av Availability
	if err := c.doJSON(ctx, http.MethodGet, "/courts/available?"+q.Encode(), "", nil, &av); err != nil {
		return nil, err
	}
	return &av, nil
}
