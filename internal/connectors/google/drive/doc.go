// Package drive wraps the Google Drive v3 API: searching, uploading,
// sharing and deleting files. Client also uploads images for the docs
// package.
package drive
