// Package github implements the repository service against the GitHub API.
//
// One Client is scoped to one credential and owns its own rate-limit
// accounting, so concurrent ingestions for different credentials never
// interfere. The Service layered on top applies the retry policy and maps
// platform failures onto the domain error taxonomy: a missing readme or a
// failed tree fetch degrades silently, while an inaccessible repository or
// an exhausted API quota aborts the ingestion.
package github
