// Package parser turns Cooklang-style recipe markup into a recipe.Recipe.
//
// Parsing runs in one synchronous pass over an in-memory document: the
// front matter is split off and canonicalized, the body is segmented into
// steps, sections and comments, every step is tokenized, and ingredient and
// cookware occurrences are indexed. A Parser holds no per-document state and
// is safe for concurrent use.
package parser
