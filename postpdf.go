// Package postpdf converts social-media content (articles, single posts
// and multi-post threads) reachable by URL into documents. It classifies
// the URL, drives a headless browser to extract a normalized content
// model from the live DOM, and hands that model to a renderer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, gin/).
package postpdf
