// Package test holds end-to-end tests run with -tags integration.
package test
