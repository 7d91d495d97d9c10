package browser

import (
	"context"
	"fmt"

	"github.com/playgroundlab/webstack/internal/fetch"
)

type fetchNavigator struct {
	client *fetch.Client
}

// NewFetchNavigator returns a Navigator that loads session URLs through
// the shared outbound client.
func NewFetchNavigator(client *fetch.Client) Navigator {
	return &fetchNavigator{client: client}
}

func (n *fetchNavigator) Navigate(ctx context.Context, url string) error {
	resp, err := n.client.Get(ctx, url)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("navigate %s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}
