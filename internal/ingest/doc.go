// Package ingest loads a parsed corpus into the chunk store: it embeds
// chunk texts in concurrent batches through the configured provider and
// builds the file dependency graph, applying each as one atomic store
// update.
package ingest
