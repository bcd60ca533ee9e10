// Package document turns uploaded files into plain text plus metadata.
//
// PDF files are processed page by page: a page that fails to decode is
// replaced with a placeholder instead of failing the whole document, and
// per-page progress events let callers surface extraction status. Plain text
// and markdown files are read directly.
package document
