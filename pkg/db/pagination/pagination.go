// Package pagination carries shared page metadata for list responses.
package pagination

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	TotalCount    int64  `json:"total_count"`
}
