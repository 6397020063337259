package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"tvindex/internal/logging"
)

// SubscriptionReport lists what SetSubscriptions did with each name.
type SubscriptionReport struct {
	// Applied are keys of known shows now subscribed.
	Applied []string
	// Pending are keys of shows not seen yet; they subscribe on discovery.
	Pending []string
}

// SetSubscriptions adds names to the subscription set. Known shows are
// flagged at once; the rest are kept for when they first appear.
func (c *Catalog) SetSubscriptions(names []string) (SubscriptionReport, error) {
	var report SubscriptionReport
	for _, name := range names {
		key := CanonicalKey(name)
		if key == "" {
			continue
		}
		c.subscribed[key] = struct{}{}

		show, ok, err := c.getShow(key)
		if err != nil {
			return report, err
		}
		if !ok {
			report.Pending = append(report.Pending, key)
			c.logger.Info("subscription pending", logging.String(logging.FieldShow, key))
			continue
		}
		report.Applied = append(report.Applied, key)
		if show.Subscribed {
			continue
		}
		show.Subscribed = true
		if err := c.putShow(show); err != nil {
			return report, err
		}
		c.logger.Info("subscribed", logging.String(logging.FieldShow, key))
	}
	return report, c.saveSet(objectSubscribed, c.subscribed)
}

// Unsubscribe removes names from the subscription set, pending entries
// included, and clears the flag on known shows. Files already queued stay
// in the queue log.
func (c *Catalog) Unsubscribe(names []string) error {
	for _, name := range names {
		key := CanonicalKey(name)
		delete(c.subscribed, key)
		show, ok, err := c.getShow(key)
		if err != nil {
			return err
		}
		if ok && show.Subscribed {
			show.Subscribed = false
			if err := c.putShow(show); err != nil {
				return err
			}
			c.logger.Info("unsubscribed", logging.String(logging.FieldShow, key))
		}
	}
	return c.saveSet(objectSubscribed, c.subscribed)
}

// Subscriptions returns the subscription set, sorted.
func (c *Catalog) Subscriptions() []string {
	return sortedKeys(c.subscribed)
}

// SetWatchlist adds names to, or removes them from, the watchlist.
func (c *Catalog) SetWatchlist(names []string, on bool) error {
	for _, name := range names {
		key := CanonicalKey(name)
		if key == "" {
			continue
		}
		if on {
			c.watchlist[key] = struct{}{}
		} else {
			delete(c.watchlist, key)
		}
		show, ok, err := c.getShow(key)
		if err != nil {
			return err
		}
		if ok && show.Watchlist != on {
			show.Watchlist = on
			if err := c.putShow(show); err != nil {
				return err
			}
		}
	}
	return c.saveSet(objectWatchlist, c.watchlist)
}

// Watchlist returns the watchlist set, sorted.
func (c *Catalog) Watchlist() []string {
	return sortedKeys(c.watchlist)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SubscriptionFile is the JSON document read by LoadSubscriptionsFile.
type SubscriptionFile struct {
	ShowsSubscribed []string `json:"shows_subscribed"`
}

// LoadSubscriptionsFile reads show names from a {"shows_subscribed": [...]} file.
func LoadSubscriptionsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subscriptions file: %w", err)
	}
	var doc SubscriptionFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse subscriptions file %s: %w", path, err)
	}
	return doc.ShowsSubscribed, nil
}
