// Package router parses raw streamer frames and routes quote content to
// the writers.
//
// The streamer multiplexes services over one socket; the router decodes
// each data delivery, maps the numbered QUOTE fields to QuoteMsg, and
// buffers them for the QuoteWriter. Poll-sourced quotes enter the same
// buffer via Publish, so the writer has a single input regardless of
// source.
package router
