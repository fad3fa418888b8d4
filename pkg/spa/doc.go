// Package spa serves a prebuilt single-page application bundle with an index fallback.
package spa
