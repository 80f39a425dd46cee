// Package redis wraps go-redis for the shared credential store.
//
// It exposes only what credential storage needs: string reads that report
// absence, atomic multi-key writes and deletes.
package redis
