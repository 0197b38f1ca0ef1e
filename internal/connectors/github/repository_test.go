package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/allthriveai/showcase/internal/core/domain"
)

// rewriteTransport points every request at the test server.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// fakeGitHub is a canned GitHub REST API for one repository.
type fakeGitHub struct {
	repoStatus int
	repoJSON   string

	treeStatus int
	treeJSON   string

	// rateLimited serves the repository endpoint as an exhausted primary
	// rate limit.
	rateLimited bool

	// files maps contents paths to file bodies. Absent paths get a 404.
	files map[string]string

	// oversize paths report a size over the ceiling.
	oversize map[string]bool

	// delay slows every endpoint down, simulating network latency.
	delay time.Duration
}

func (f *fakeGitHub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "5000")
		if f.rateLimited {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))

		switch {
		case r.URL.Path == "/repos/acme/widget":
			if f.repoStatus != 0 && f.repoStatus != http.StatusOK {
				writeGitHubError(w, f.repoStatus)
				return
			}
			fmt.Fprint(w, f.repoJSON)

		case strings.HasPrefix(r.URL.Path, "/repos/acme/widget/git/trees/"):
			if f.treeStatus != 0 && f.treeStatus != http.StatusOK {
				writeGitHubError(w, f.treeStatus)
				return
			}
			fmt.Fprint(w, f.treeJSON)

		case strings.HasPrefix(r.URL.Path, "/repos/acme/widget/contents/"):
			path := strings.TrimPrefix(r.URL.Path, "/repos/acme/widget/contents/")
			if f.oversize[path] {
				writeFileJSON(w, path, "", MaxFileBytes+1)
				return
			}
			body, ok := f.files[path]
			if !ok {
				writeGitHubError(w, http.StatusNotFound)
				return
			}
			writeFileJSON(w, path, body, len(body))

		default:
			writeGitHubError(w, http.StatusNotFound)
		}
	})
}

func writeGitHubError(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"message": "error %d"}`, status)
}

func writeFileJSON(w http.ResponseWriter, path, body string, size int) {
	resp := map[string]any{
		"type":     "file",
		"encoding": "base64",
		"name":     path,
		"path":     path,
		"size":     size,
		"content":  base64.StdEncoding.EncodeToString([]byte(body)),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

const testRepoJSON = `{
	"name": "widget",
	"description": "A widget service",
	"language": "Go",
	"topics": ["widgets", "api"],
	"stargazers_count": 42,
	"default_branch": "main",
	"owner": {"login": "acme", "avatar_url": "https://avatars.example/acme"}
}`

const testTreeJSON = `{
	"sha": "abc123",
	"tree": [
		{"path": "main.go", "type": "blob", "size": 120},
		{"path": "server.go", "type": "blob", "size": 340},
		{"path": "client.go", "type": "blob", "size": 88},
		{"path": "internal", "type": "tree"},
		{"path": "vendor-module", "type": "commit"}
	]
}`

func newTestService(t *testing.T, fake *fakeGitHub) *Service {
	t.Helper()

	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	client := NewClientWithHTTPClient(&http.Client{Transport: rewriteTransport{target: target}})
	// Lift the proactive throttle so the canned server is hit at full speed.
	client.rateLimiter.bucket.SetLimit(rate.Inf)
	return NewServiceWithOptions(client, fastPolicy(2), nil)
}

func testRef() domain.RepoRef {
	return domain.RepoRef{Owner: "acme", Name: "widget", URL: "https://github.com/acme/widget"}
}

func TestSnapshot(t *testing.T) {
	fake := &fakeGitHub{
		repoJSON: testRepoJSON,
		treeJSON: testTreeJSON,
		files: map[string]string{
			"README.md": "# Widget\n\nA widget service.\n",
			"go.mod":    "module example.com/widget\n",
		},
	}
	svc := newTestService(t, fake)

	snap, err := svc.Snapshot(context.Background(), testRef())
	require.NoError(t, err)

	assert.Equal(t, "A widget service", snap.Info.Description)
	assert.Equal(t, "Go", snap.Info.Language)
	assert.Equal(t, []string{"widgets", "api"}, snap.Info.Topics)
	assert.Equal(t, 42, snap.Info.Stars)
	assert.Equal(t, "main", snap.Info.DefaultBranch)
	assert.Equal(t, "https://avatars.example/acme", snap.Info.OwnerAvatarURL)

	require.NotNil(t, snap.Readme)
	assert.Contains(t, *snap.Readme, "# Widget")

	// The commit entry (submodule) is dropped.
	require.Len(t, snap.Tree, 4)
	assert.Equal(t, domain.TreeEntryFile, snap.Tree[0].Type)
	assert.Equal(t, domain.TreeEntryDir, snap.Tree[3].Type)

	require.Contains(t, snap.DependencyFiles, "go.mod")
	require.NotNil(t, snap.DependencyFiles["go.mod"])
	assert.Nil(t, snap.DependencyFiles["package.json"])

	assert.Contains(t, snap.TechStack, "Go")
}

// TestSnapshotSubFetchesRunConcurrently verifies the readme, tree and
// manifest probes overlap. With 80ms per endpoint the fifteen calls of a
// full snapshot would take over a second back to back; the wall clock must
// track the slowest sub-fetch plus the repository record instead.
func TestSnapshotSubFetchesRunConcurrently(t *testing.T) {
	fake := &fakeGitHub{
		repoJSON: testRepoJSON,
		treeJSON: testTreeJSON,
		delay:    80 * time.Millisecond,
		files: map[string]string{
			"README.md": "# Widget\n",
			"go.mod":    "module example.com/widget\n",
		},
	}
	svc := newTestService(t, fake)

	start := time.Now()
	snap, err := svc.Snapshot(context.Background(), testRef())
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.NotNil(t, snap.Readme)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestSnapshotReadmeFallthrough(t *testing.T) {
	fake := &fakeGitHub{
		repoJSON: testRepoJSON,
		treeJSON: testTreeJSON,
		files: map[string]string{
			// No README.md; the probe falls through to the rst candidate.
			"README.rst": "Widget\n======\n",
		},
	}
	svc := newTestService(t, fake)

	snap, err := svc.Snapshot(context.Background(), testRef())
	require.NoError(t, err)
	require.NotNil(t, snap.Readme)
	assert.Contains(t, *snap.Readme, "Widget")
}

func TestSnapshotMissingReadme(t *testing.T) {
	fake := &fakeGitHub{
		repoJSON: testRepoJSON,
		treeJSON: testTreeJSON,
	}
	svc := newTestService(t, fake)

	snap, err := svc.Snapshot(context.Background(), testRef())
	require.NoError(t, err)
	assert.Nil(t, snap.Readme)
}

func TestSnapshotOversizedReadmeIsAbsent(t *testing.T) {
	fake := &fakeGitHub{
		repoJSON: testRepoJSON,
		treeJSON: testTreeJSON,
		oversize: map[string]bool{
			"README.md": true, "readme.md": true, "README.rst": true,
			"README.txt": true, "README": true,
		},
	}
	svc := newTestService(t, fake)

	snap, err := svc.Snapshot(context.Background(), testRef())
	require.NoError(t, err)
	assert.Nil(t, snap.Readme)
}

func TestSnapshotRepoNotFound(t *testing.T) {
	fake := &fakeGitHub{repoStatus: http.StatusNotFound}
	svc := newTestService(t, fake)

	_, err := svc.Snapshot(context.Background(), testRef())
	assert.ErrorIs(t, err, domain.ErrRepoInaccessible)
}

func TestSnapshotRepoForbidden(t *testing.T) {
	fake := &fakeGitHub{repoStatus: http.StatusForbidden}
	svc := newTestService(t, fake)

	_, err := svc.Snapshot(context.Background(), testRef())
	assert.ErrorIs(t, err, domain.ErrRepoInaccessible)
}

func TestSnapshotRateLimitExhausted(t *testing.T) {
	fake := &fakeGitHub{rateLimited: true}
	svc := newTestService(t, fake)

	_, err := svc.Snapshot(context.Background(), testRef())
	assert.ErrorIs(t, err, domain.ErrRateLimitExhausted)
}

func TestSnapshotServerErrorsExhaustRetries(t *testing.T) {
	fake := &fakeGitHub{repoStatus: http.StatusInternalServerError}
	svc := newTestService(t, fake)

	_, err := svc.Snapshot(context.Background(), testRef())
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestSnapshotTreeFailureIsNotFatal(t *testing.T) {
	fake := &fakeGitHub{
		repoJSON:   testRepoJSON,
		treeStatus: http.StatusInternalServerError,
		files: map[string]string{
			"README.md": "# Widget\n",
		},
	}
	svc := newTestService(t, fake)

	snap, err := svc.Snapshot(context.Background(), testRef())
	require.NoError(t, err)
	assert.Empty(t, snap.Tree)
	require.NotNil(t, snap.Readme)
}
