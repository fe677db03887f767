// Package gmail lists and sends mail through the Gmail v1 API.
//
// Messages written in Markdown are rendered to HTML with goldmark,
// sanitised with bluemonday, and sent as multipart/alternative next to the
// original text.
package gmail
