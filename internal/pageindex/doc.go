// Package pageindex builds a hierarchical root→directory→file index over
// the stored corpus and answers queries by navigating it top-down,
// selecting nodes by lexical relevance instead of scoring every chunk.
package pageindex
