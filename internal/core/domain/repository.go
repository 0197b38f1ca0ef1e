package domain

// TreeEntryType distinguishes files from directories in a repository tree.
type TreeEntryType string

const (
	// TreeEntryFile is a regular file (blob).
	TreeEntryFile TreeEntryType = "file"

	// TreeEntryDir is a directory (tree).
	TreeEntryDir TreeEntryType = "dir"
)

// TreeEntry is one entry of a repository's recursive file listing.
type TreeEntry struct {
	// Path is the entry path relative to the repository root.
	Path string

	// Type is file or dir.
	Type TreeEntryType

	// Size is the blob size in bytes. Zero for directories.
	Size int64
}

// RepositoryInfo carries the repository metadata used for enrichment and
// hero fallbacks. Populated from the platform's repository record.
type RepositoryInfo struct {
	// Ref is the normalised repository reference.
	Ref RepoRef

	// Description is the repository's own short description.
	Description string

	// Language is the primary language reported by the platform.
	Language string

	// Topics are the repository's declared topic tags.
	Topics []string

	// Stars is the stargazer count at fetch time.
	Stars int

	// DefaultBranch is the branch readme/tree fetches resolve against.
	DefaultBranch string

	// OwnerAvatarURL is the owner's avatar, used as the last hero fallback.
	OwnerAvatarURL string

	// SocialPreviewURL is the repository's social-preview image when the
	// caller supplies one. May be empty.
	SocialPreviewURL string
}

// RepositorySnapshot is everything fetched from the repository platform for
// one ingestion. Owned exclusively by the client during the fetch and never
// mutated after return.
type RepositorySnapshot struct {
	// Info is the repository metadata.
	Info RepositoryInfo

	// Readme is the decoded primary document, or nil when no readme
	// variant exists. A missing readme is not an error.
	Readme *string

	// Tree is the full recursive file listing. Empty on tree fetch
	// failure; tree absence is non-fatal.
	Tree []TreeEntry

	// DependencyFiles maps each probed manifest path to its decoded
	// content, or nil for missing/failed/oversized files.
	DependencyFiles map[string]*string

	// TechStack lists languages and frameworks derived from the tree and
	// dependency file contents via static pattern matching.
	TechStack []string
}
