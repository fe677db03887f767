// Package file persists cached OAuth access tokens as one JSON file per vendor.
package file
