// Package docs writes Markdown into Google Docs.
//
// Translate walks the goldmark AST and produces a Plan: the document text,
// the style ranges over it, and placeholders for images and tables. Writer
// executes a plan in three batches:
//
//  1. insert the text and apply every style
//  2. insert images and tables, in descending index order
//  3. re-read the document and fill table cells, in descending index order
//
// Each structural insertion shifts everything after it, so working from the
// end of the document keeps every earlier index valid.
//
// Indexes count UTF-16 code units, as the Docs API does.
package docs
