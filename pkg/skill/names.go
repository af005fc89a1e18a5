// Package skill holds the built-in skills the seeded jobs and hooks
// reference. They are deliberately dependency-light: the heavy payloads
// (AI content generation, image search) live behind external collaborators
// and re-enter the runtime through the same contract.
package skill

const (
	NameProductEnrichment = "product-enrichment"
	NameMemoryMaintenance = "memory-maintenance"
	NameHealthReport      = "health-report"
)
