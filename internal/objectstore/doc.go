// Package objectstore persists JSON documents for rooms and sessions. The
// primary backend is a MinIO bucket; a local filesystem backend serves as the
// development default and as a fallback when the bucket is unreachable.
package objectstore
