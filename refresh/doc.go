// Package refresh coordinates access-token refresh across concurrent calls.
//
// A Coordinator is either idle or refreshing. The first caller to report an
// authorization failure while idle starts a refresh; every caller that
// reports one while it runs is queued and receives the same outcome. The
// refresh is issued at most once per episode.
//
// On success the new tokens are stored and handed to every waiter. On
// failure both tokens are cleared, the navigator is sent to the login path
// once, and every waiter receives the refresh error.
package refresh
