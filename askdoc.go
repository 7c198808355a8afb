// Package askdoc provides the ingestion and retrieval core of a local
// documentation chat assistant. It crawls documentation sites into a
// bounded page set, chunks and deduplicates content into a knowledge
// base, serves ranked, diversified answers to queries under a hybrid
// vector+text scoring scheme, and gates user feedback behind a
// confidence threshold before anything is persisted.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency or concern
// (e.g., sqlite/, crawl/, gemini/).
package askdoc
